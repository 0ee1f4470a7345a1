package scan

import (
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Norber-Developer/RefindPlus/internal/config"
	"github.com/Norber-Developer/RefindPlus/internal/log"
	"github.com/Norber-Developer/RefindPlus/internal/volume"
)

func TestMain(m *testing.M) {
	log.SetLogger(log.Discard())
	os.Exit(m.Run())
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time { return baseTime.Add(time.Duration(minutes) * time.Minute) }

func file(data string, mod time.Time) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data), ModTime: mod}
}

func loaderData(c byte) string { return strings.Repeat(string(c), 100) }

func testVolume(name string, files fstest.MapFS) *volume.Volume {
	return &volume.Volume{
		Name:     name,
		FSName:   name,
		Kind:     volume.KindInternal,
		Root:     files,
		Readable: true,
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ShowTools = nil
	return cfg
}

func testEngine(cfg *config.Config, vols []*volume.Volume, opts ...Option) *Engine {
	opts = append([]Option{WithValidator(AcceptAll{})}, opts...)
	return NewEngine(cfg, vols, opts...)
}

// memState is an in-memory StateStore.
type memState map[string]string

func (m memState) ReadVar(name string) (string, error) { return m[name], nil }

func (m memState) WriteVar(name, value string) error {
	if value == "" {
		delete(m, name)
		return nil
	}
	m[name] = value
	return nil
}

type fakeFirmware struct {
	records []BootEntryRecord
	toFW    bool
}

func (f *fakeFirmware) BootEntries() ([]BootEntryRecord, error) { return f.records, nil }
func (f *fakeFirmware) BootToFirmwareSupported() bool           { return f.toFW }

func loaderPaths(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		if le, ok := e.(*LoaderEntry); ok {
			out = append(out, le.Volume.Name+":"+le.Path)
		}
	}
	return out
}
