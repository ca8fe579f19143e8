package command

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixil98/go-survival/internal/geometry"
)

// ZoneConfig points at the monument zone definitions. Missing path means
// no monuments, which is fine for small test worlds.
type ZoneConfig struct {
	AssetsPath string `json:"asset_path,omitempty"`
}

type zoneFile struct {
	Name    string  `json:"name"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius"`
}

func (zc *ZoneConfig) LoadZones() ([]geometry.MonumentZone, error) {
	if zc.AssetsPath == "" {
		return nil, nil
	}

	var zones []geometry.MonumentZone
	err := filepath.Walk(zc.AssetsPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file %s: %w", path, err)
		}
		var zf zoneFile
		if err := json.Unmarshal(data, &zf); err != nil {
			return fmt.Errorf("unmarshaling zone %s: %w", path, err)
		}
		if zf.Radius <= 0 {
			return fmt.Errorf("zone %s: radius must be positive", path)
		}
		zones = append(zones, geometry.MonumentZone{
			Name:   zf.Name,
			Center: geometry.Vec{X: zf.CenterX, Y: zf.CenterY},
			Radius: zf.Radius,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking assets path %s: %w", zc.AssetsPath, err)
	}

	return zones, nil
}
