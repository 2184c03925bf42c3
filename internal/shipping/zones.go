package shipping

// Package shipping computes weight-tiered delivery costs per zone.

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RateBracket is one weight tier of a zone's rate table. MinWeight is an
// exclusive lower bound, MaxWeight an inclusive upper bound, both in kg.
type RateBracket struct {
	MinWeight float64 `yaml:"min_weight" json:"min_weight"`
	MaxWeight float64 `yaml:"max_weight" json:"max_weight"`
	Rate      float64 `yaml:"rate" json:"rate"`
}

// Zone is a delivery-distance classification with an ordered bracket table
// covering (0, 2kg] and a per-kg rate for weight beyond the last bracket.
type Zone struct {
	ID        string        `yaml:"id" json:"id"`
	Name      string        `yaml:"name" json:"name"`
	Brackets  []RateBracket `yaml:"brackets" json:"brackets"`
	PerKgRate float64       `yaml:"per_kg_rate" json:"per_kg_rate"`
}

type zonesFile struct {
	Zones []Zone `yaml:"zones"`
}

// DefaultZones returns the built-in Bangladesh delivery zones.
func DefaultZones() []Zone {
	return []Zone{
		{
			ID:   "inside_dhaka",
			Name: "Inside Dhaka",
			Brackets: []RateBracket{
				{MinWeight: 0, MaxWeight: 0.5, Rate: 60},
				{MinWeight: 0.5, MaxWeight: 1, Rate: 70},
				{MinWeight: 1, MaxWeight: 2, Rate: 90},
			},
			PerKgRate: 15,
		},
		{
			ID:   "dhaka_suburb",
			Name: "Dhaka Suburb",
			Brackets: []RateBracket{
				{MinWeight: 0, MaxWeight: 0.5, Rate: 80},
				{MinWeight: 0.5, MaxWeight: 1, Rate: 95},
				{MinWeight: 1, MaxWeight: 2, Rate: 110},
			},
			PerKgRate: 20,
		},
		{
			ID:   "outside_dhaka",
			Name: "Outside Dhaka",
			Brackets: []RateBracket{
				{MinWeight: 0, MaxWeight: 0.5, Rate: 110},
				{MinWeight: 0.5, MaxWeight: 1, Rate: 130},
				{MinWeight: 1, MaxWeight: 2, Rate: 150},
			},
			PerKgRate: 25,
		},
	}
}

// ParseZones parses a YAML zone table.
func ParseZones(content []byte) ([]Zone, error) {
	var file zonesFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse zones YAML: %w", err)
	}

	if len(file.Zones) == 0 {
		return nil, fmt.Errorf("at least one zone is required")
	}
	for i, zone := range file.Zones {
		if err := validateZone(zone); err != nil {
			return nil, fmt.Errorf("zone %d validation failed: %w", i, err)
		}
	}

	return file.Zones, nil
}

// LoadZonesFile reads a zone table from disk.
func LoadZonesFile(path string) ([]Zone, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}
	return ParseZones(content)
}

func validateZone(zone Zone) error {
	if strings.TrimSpace(zone.ID) == "" {
		return fmt.Errorf("zone id is required")
	}
	if strings.TrimSpace(zone.Name) == "" {
		return fmt.Errorf("zone name is required")
	}
	if len(zone.Brackets) == 0 {
		return fmt.Errorf("at least one rate bracket is required")
	}

	previousMax := 0.0
	for i, bracket := range zone.Brackets {
		if bracket.Rate < 0 {
			return fmt.Errorf("bracket %d rate must be zero or positive", i)
		}
		if bracket.MaxWeight <= bracket.MinWeight {
			return fmt.Errorf("bracket %d max weight must exceed min weight", i)
		}
		if bracket.MinWeight != previousMax {
			return fmt.Errorf("bracket %d must start where bracket %d ends", i, i-1)
		}
		previousMax = bracket.MaxWeight
	}

	if zone.PerKgRate < 0 {
		return fmt.Errorf("per-kg rate must be zero or positive")
	}

	return nil
}
