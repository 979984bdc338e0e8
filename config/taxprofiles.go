package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/analysis"
)

var ErrTaxProfileNotFound = errors.New("tax profile not found")

// TaxProfile is a named set of tax approximations for one jurisdiction
type TaxProfile struct {
	Name              string  `json:"name"`
	Jurisdiction      string  `json:"jurisdiction"`
	TaxRate           float64 `json:"tax_rate"`
	InterestProxy     float64 `json:"interest_proxy"`
	DepreciationProxy float64 `json:"depreciation_proxy"`
}

// TaxProfilesConfig represents the full tax profiles file
type TaxProfilesConfig struct {
	TaxProfiles []TaxProfile `json:"tax_profiles"`
}

var (
	taxProfilesConfig *TaxProfilesConfig
	configLock        sync.RWMutex
	configPath        = "config/tax_profiles.json"
)

// Apply overlays the profile's tax constants on a set of assumptions
func (p TaxProfile) Apply(a analysis.Assumptions) analysis.Assumptions {
	a.TaxRate = p.TaxRate
	a.InterestProxy = p.InterestProxy
	a.DepreciationProxy = p.DepreciationProxy
	return a
}

// Validate checks the profile holds usable numbers
func (p TaxProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("tax profile name is required")
	}
	if p.TaxRate < 0 || p.TaxRate > 1 {
		return fmt.Errorf("tax rate must be between 0 and 1, got %v", p.TaxRate)
	}
	if p.InterestProxy < 0 || p.DepreciationProxy < 0 {
		return fmt.Errorf("tax proxies must not be negative")
	}
	return nil
}

// SetTaxProfilesPath changes the file tax profiles are loaded from and saved to
func SetTaxProfilesPath(path string) {
	configLock.Lock()
	defer configLock.Unlock()
	configPath = path
}

// LoadTaxProfiles loads the tax profiles from file. A missing file leaves an
// empty set of profiles.
func LoadTaxProfiles() error {
	configLock.Lock()
	defer configLock.Unlock()

	// Get absolute path to config file
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	data, err := os.ReadFile(absPath)
	if errors.Is(err, os.ErrNotExist) {
		taxProfilesConfig = &TaxProfilesConfig{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}

	var config TaxProfilesConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config: %v", err)
	}

	taxProfilesConfig = &config
	return nil
}

// saveLocked writes the profiles to file. The caller holds configLock.
func saveLocked() error {
	if taxProfilesConfig == nil {
		return fmt.Errorf("no configuration loaded")
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	// Marshal configuration with pretty printing
	data, err := json.MarshalIndent(taxProfilesConfig, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}
	if err := os.WriteFile(absPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// GetTaxProfiles returns all configured tax profiles
func GetTaxProfiles() []TaxProfile {
	configLock.RLock()
	defer configLock.RUnlock()

	if taxProfilesConfig == nil {
		return []TaxProfile{}
	}
	profiles := make([]TaxProfile, len(taxProfilesConfig.TaxProfiles))
	copy(profiles, taxProfilesConfig.TaxProfiles)
	return profiles
}

// GetTaxProfileByName returns a specific tax profile by name
func GetTaxProfileByName(name string) *TaxProfile {
	configLock.RLock()
	defer configLock.RUnlock()

	if taxProfilesConfig == nil {
		return nil
	}

	for _, profile := range taxProfilesConfig.TaxProfiles {
		if profile.Name == name {
			return &profile
		}
	}
	return nil
}

// UpdateTaxProfile updates or adds a tax profile and persists the file
func UpdateTaxProfile(profile TaxProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	configLock.Lock()
	defer configLock.Unlock()

	if taxProfilesConfig == nil {
		taxProfilesConfig = &TaxProfilesConfig{}
	}

	// Find and update existing profile or add new one
	found := false
	for i, existing := range taxProfilesConfig.TaxProfiles {
		if existing.Name == profile.Name {
			taxProfilesConfig.TaxProfiles[i] = profile
			found = true
			break
		}
	}

	if !found {
		taxProfilesConfig.TaxProfiles = append(taxProfilesConfig.TaxProfiles, profile)
	}

	return saveLocked()
}

// DeleteTaxProfile removes a tax profile and persists the file
func DeleteTaxProfile(name string) error {
	configLock.Lock()
	defer configLock.Unlock()

	if taxProfilesConfig == nil {
		return fmt.Errorf("no configuration loaded")
	}

	for i, profile := range taxProfilesConfig.TaxProfiles {
		if profile.Name == name {
			taxProfilesConfig.TaxProfiles = append(
				taxProfilesConfig.TaxProfiles[:i],
				taxProfilesConfig.TaxProfiles[i+1:]...,
			)
			return saveLocked()
		}
	}

	return fmt.Errorf("%w: %s", ErrTaxProfileNotFound, name)
}
