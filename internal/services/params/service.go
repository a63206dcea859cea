// Package params provides the global parameters service.
//
// Global parameters are the dropdown-option dictionaries and MEDDIC
// evaluation weights consumed by the config-editor screens. They live as a
// single document in the document database and are mirrored verbatim into
// durable storage so the dashboard can read them alongside the other
// console state.
package params

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sri-intel/console-service/internal/core/docdb"
	"github.com/sri-intel/console-service/internal/core/storage"
	"github.com/sri-intel/console-service/internal/domain/models"
)

// DefaultParams returns the hardcoded parameter defaults, built fresh per
// call.
func DefaultParams() models.GlobalParams {
	return models.GlobalParams{
		Options: map[string][]string{
			"zones":      {"华东战区", "华北战区", "华南战区", "西南战区"},
			"dealStages": {"线索", "初步接触", "方案报价", "商务谈判", "赢单", "丢单"},
			"industries": {"制造", "金融", "政企", "医疗", "互联网"},
			"tiers":      {"战略客户", "重点客户", "普通客户"},
		},
		MeddicWeights: map[string]float64{
			"metrics":          0.20,
			"economicBuyer":    0.20,
			"decisionCriteria": 0.15,
			"decisionProcess":  0.15,
			"identifyPain":     0.15,
			"champion":         0.15,
		},
	}
}

// Service provides access to the global parameters.
type Service struct {
	docDB   docdb.Client
	durable storage.Store
}

// Config holds the configuration for the params service.
type Config struct {
	DocDB   docdb.Client
	Durable storage.Store
}

// NewService creates a new params service.
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.DocDB == nil {
		return nil, fmt.Errorf("docdb client is required")
	}
	if cfg.Durable == nil {
		return nil, fmt.Errorf("durable store is required")
	}

	return &Service{
		docDB:   cfg.DocDB,
		durable: cfg.Durable,
	}, nil
}

// Get returns the stored global parameters, falling back to the defaults
// when none have been saved yet, and refreshes the durable mirror.
func (s *Service) Get(ctx context.Context) (models.GlobalParams, error) {
	stored, err := s.docDB.Params().Get(ctx)
	if err != nil {
		return models.GlobalParams{}, fmt.Errorf("failed to load global params: %w", err)
	}

	params := DefaultParams()
	if stored != nil {
		params = stored.Clone()
	}

	s.mirror(ctx, params)
	return params, nil
}

// Put replaces the stored global parameters and refreshes the durable
// mirror.
func (s *Service) Put(ctx context.Context, params models.GlobalParams) error {
	if err := s.docDB.Params().Upsert(ctx, &params); err != nil {
		return fmt.Errorf("failed to store global params: %w", err)
	}
	s.mirror(ctx, params)
	return nil
}

// mirror writes the params verbatim under the durable key read by the
// dashboard's config screens. Best effort; the document store is the truth.
func (s *Service) mirror(ctx context.Context, params models.GlobalParams) {
	data, err := json.Marshal(params)
	if err != nil {
		return
	}
	_ = s.durable.Set(ctx, storage.KeyParams, data, 0)
}
