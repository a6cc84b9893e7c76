package entry

// SavedConfig is a persisted network configuration.
type SavedConfig struct {
	SSID     string       `json:"ssid"`
	Security SecurityType `json:"security"`
}

// SavedConfigIndex holds the current full set of saved configurations,
// replaced wholesale on each saved-list-changed event. Like ScanResultStore
// it is owned by the tracker's worker goroutine and is not locked.
type SavedConfigIndex struct {
	configs []SavedConfig
}

// NewSavedConfigIndex creates an empty index.
func NewSavedConfigIndex() *SavedConfigIndex {
	return &SavedConfigIndex{}
}

// ReplaceAll replaces the full set of saved configurations.
func (i *SavedConfigIndex) ReplaceAll(configs []SavedConfig) {
	set := make([]SavedConfig, len(configs))
	copy(set, configs)
	i.configs = set
}

// FindMatch returns the first saved config whose SSID equals the identity's
// and whose security matches exactly or through a transitional pair.
func (i *SavedConfigIndex) FindMatch(id Identity) (SavedConfig, bool) {
	for _, cfg := range i.configs {
		if cfg.SSID != id.SSID() {
			continue
		}
		if configMatches(cfg.Security, id.Security()) {
			return cfg, true
		}
	}
	return SavedConfig{}, false
}

// Size returns the number of saved configurations.
func (i *SavedConfigIndex) Size() int {
	return len(i.configs)
}
