package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// GridConfigView is one grid strategy definition as shown on the dashboard.
type GridConfigView struct {
	Filename   string `json:"filename"`
	Exchange   string `json:"exchange"`
	Symbol     string `json:"symbol"`
	Mode       string `json:"mode"`
	Direction  string `json:"direction"`
	Investment string `json:"investment"`
	Status     string `json:"status"`
}

// GridConfigService lists the grid strategy YAML files under a directory.
// Definitions are read-only here; the dashboard only displays them.
type GridConfigService struct {
	dir    string
	logger *zap.Logger
}

func NewGridConfigService(dir string, logger *zap.Logger) *GridConfigService {
	return &GridConfigService{dir: dir, logger: logger}
}

type gridConfigFile struct {
	GridSystem gridSystem `yaml:"grid_system"`
	// Some older files keep the fields at the root.
	gridSystem `yaml:",inline"`
}

type gridSystem struct {
	Exchange        string  `yaml:"exchange"`
	Symbol          string  `yaml:"symbol"`
	GridType        string  `yaml:"grid_type"`
	OrderAmount     float64 `yaml:"order_amount"`
	GridCount       int     `yaml:"grid_count"`
	FollowGridCount int     `yaml:"follow_grid_count"`
}

// List parses every non-template *.yaml file in the directory. Unparseable
// files are logged and skipped; a missing directory yields an empty list.
func (s *GridConfigService) List() []GridConfigView {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return []GridConfigView{}
	}

	configs := make([]GridConfigView, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".yaml" {
			continue
		}
		if strings.Contains(strings.ToLower(name), "template") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn("Failed to read grid config", zap.String("file", name), zap.Error(err))
			continue
		}

		var cfg gridConfigFile
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			s.logger.Warn("Failed to parse grid config", zap.String("file", name), zap.Error(err))
			continue
		}

		sys := cfg.GridSystem
		if sys.Symbol == "" && sys.Exchange == "" {
			sys = cfg.gridSystem
		}
		if sys.Symbol == "" && sys.Exchange == "" {
			continue
		}

		configs = append(configs, viewFromSystem(name, sys))
	}
	return configs
}

func viewFromSystem(filename string, sys gridSystem) GridConfigView {
	exchange := sys.Exchange
	if exchange == "" {
		exchange = "unknown"
	}
	exchange = strings.ToUpper(exchange[:1]) + exchange[1:]

	symbol := sys.Symbol
	if symbol == "" {
		symbol = "Unknown"
	}

	gridType := strings.ToLower(sys.GridType)
	direction := "long"
	if strings.Contains(gridType, "short") {
		direction = "short"
	}

	mode := "NORMAL"
	if strings.Contains(gridType, "follow") {
		mode = "FOLLOW"
	} else if strings.Contains(gridType, "martingale") {
		mode = "MARTINGALE"
	}

	gridCount := sys.FollowGridCount
	if gridCount == 0 {
		gridCount = sys.GridCount
	}

	return GridConfigView{
		Filename:   filename,
		Exchange:   exchange,
		Symbol:     symbol,
		Mode:       mode,
		Direction:  direction,
		Investment: fmt.Sprintf("%d grids x %g", gridCount, sys.OrderAmount),
		Status:     "stopped",
	}
}
