package scan

import (
	"github.com/Norber-Developer/RefindPlus/internal/log"
)

// scanNetwork asks the network discoverer for boot offers. It needs both
// iPXE programs on the self volume.
func (c *ScanContext) scanNetwork() []Entry {
	if !c.cfg.NetworkBoot {
		return nil
	}
	self := c.policy.Self.Volume
	if self == nil || !self.FileExists(ipxeDiscoverPath) || !self.FileExists(ipxePath) {
		log.Debugf("network boot: iPXE programs not found")
		return nil
	}
	if !c.validator.IsValidLoader(self, ipxePath) {
		return nil
	}
	if c.network == nil {
		log.Debugf("network boot: no discoverer configured")
		return nil
	}

	offers, err := c.network.Discover(self, ipxeDiscoverPath)
	if err != nil {
		c.warnf("network boot discovery: %w", err)
		return nil
	}

	var out []Entry
	for _, o := range offers {
		cl := c.ClassifyOffered(ipxePath, o.Title)
		e := &NetworkEntry{
			EntryInfo: EntryInfo{
				Title:          "Boot " + o.Title,
				OSType:         OSNetwork,
				Hints:          cl.Hints,
				Row:            RowPrimary,
				ShortcutLetter: cl.Letter,
			},
			Volume:   self,
			Path:     ipxePath,
			BootInfo: o.BootInfo,
		}
		e.Icon = c.resolveIcon(nil, "", e.Hints)
		out = append(out, e)
	}
	return out
}
