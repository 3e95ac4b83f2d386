package reservation

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"travelagency/models"

	"gopkg.in/yaml.v3"
)

func price(v float64) *float64 { return &v }

// DefaultSeedPackages is the catalog pushed to an empty remote store on first run.
func DefaultSeedPackages() []models.TravelPackage {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.TravelPackage{
		{
			ID:          "PKG-OMRA-RAMADAN",
			Title:       "Omra Ramadan 15 jours",
			Description: "Hotel a 300 m du Haram, vols directs, visa inclus.",
			Price:       320000,
			PriceAdult:  price(320000),
			PriceChild:  price(250000),
			PriceBaby:   price(90000),
			Type:        models.ServicePilgrimage,
			Duration:    "15 jours",
			Stock:       40,
			Itinerary: []models.ItineraryDay{
				{Day: 1, Title: "Depart", Description: "Vol vers Djeddah, transfert a La Mecque."},
				{Day: 8, Title: "Medine", Description: "Transfert en bus vers Medine."},
				{Day: 15, Title: "Retour"},
			},
			Inclusions: []string{"Billet d'avion", "Visa", "Hebergement", "Transferts"},
			Exclusions: []string{"Repas du soir"},
			CreatedAt:  created,
		},
		{
			ID:          "PKG-ISTANBUL",
			Title:       "Istanbul 8 jours",
			Description: "Voyage organise avec guide, hotel 4 etoiles.",
			Price:       145000,
			Type:        models.ServiceOrganizedTrip,
			Duration:    "8 jours",
			Stock:       25,
			Inclusions:  []string{"Vols", "Hotel", "Petit-dejeuner", "Excursions"},
			CreatedAt:   created.Add(time.Hour),
		},
		{
			ID:          "PKG-VISA-SCHENGEN",
			Title:       "Visa Schengen",
			Description: "Constitution du dossier et prise de rendez-vous.",
			Price:       18000,
			Type:        models.ServiceVisa,
			Stock:       100,
			CreatedAt:   created.Add(2 * time.Hour),
		},
		{
			ID:          "PKG-EVISA-TURKIYE",
			Title:       "E-Visa Turquie",
			Description: "Demande en ligne, delivrance sous 48 h.",
			Price:       6000,
			Type:        models.ServiceEVisa,
			Stock:       100,
			CreatedAt:   created.Add(3 * time.Hour),
		},
	}
}

// LoadSeedFile reads a seed catalog from a YAML file. Keys use the same
// camelCase names as the JSON API.
func LoadSeedFile(path string) ([]models.TravelPackage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed catalog: %w", err)
	}
	var doc struct {
		Packages []map[string]any `yaml:"packages"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse seed catalog %s: %w", path, err)
	}
	// Round-trip through JSON so the model's json tags drive field names.
	b, err := json.Marshal(doc.Packages)
	if err != nil {
		return nil, fmt.Errorf("convert seed catalog: %w", err)
	}
	var pkgs []models.TravelPackage
	if err := json.Unmarshal(b, &pkgs); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	for i, p := range pkgs {
		if p.ID == "" {
			return nil, fmt.Errorf("seed catalog entry %d has no id", i)
		}
		if !models.ValidServiceType(p.Type) {
			return nil, fmt.Errorf("seed catalog entry %s has unknown type %q", p.ID, p.Type)
		}
	}
	return pkgs, nil
}
