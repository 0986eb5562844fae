package config

import (
	"testing"

	"github.com/mwaldt/cfpbflow/internal/domain"
)

func TestPipelineConfigValidate(t *testing.T) {
	today, err := domain.ParseDate("2024-03-10")
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name    string
		cfg     PipelineConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg: PipelineConfig{
				StartDate: "2024-01-01",
				Companies: []string{"alpha bank"},
				StatePath: "./data/state.json",
			},
		},
		{
			name: "start date equals today",
			cfg: PipelineConfig{
				StartDate: "2024-03-10",
				Companies: []string{"alpha bank"},
				StatePath: "./data/state.json",
			},
		},
		{
			name: "future start date",
			cfg: PipelineConfig{
				StartDate: "2024-06-01",
				Companies: []string{"alpha bank"},
				StatePath: "./data/state.json",
			},
			wantErr: true,
		},
		{
			name: "malformed start date",
			cfg: PipelineConfig{
				StartDate: "03/10/2024",
				Companies: []string{"alpha bank"},
				StatePath: "./data/state.json",
			},
			wantErr: true,
		},
		{
			name: "no companies",
			cfg: PipelineConfig{
				StartDate: "2024-01-01",
				StatePath: "./data/state.json",
			},
			wantErr: true,
		},
		{
			name: "empty state path",
			cfg: PipelineConfig{
				StartDate: "2024-01-01",
				Companies: []string{"alpha bank"},
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, err := tc.cfg.Validate(today)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
			if start.String() != tc.cfg.StartDate {
				t.Errorf("start = %s, want %s", start, tc.cfg.StartDate)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.CFPB.BaseURL == "" {
		t.Error("cfpb.base_url default missing")
	}
	if cfg.CFPB.PageSize <= 0 {
		t.Errorf("cfpb.page_size default = %d", cfg.CFPB.PageSize)
	}
	if cfg.Pipeline.StartDate == "" {
		t.Error("pipeline.start_date default missing")
	}
	if cfg.Pipeline.StatePath == "" {
		t.Error("pipeline.state_path default missing")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("database.driver default = %s, want sqlite", cfg.Database.Driver)
	}
}
