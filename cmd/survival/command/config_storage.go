package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-survival/internal/items"
	"github.com/pixil98/go-survival/internal/storage"
	"github.com/pixil98/go-survival/internal/tuning"
	"github.com/pixil98/go-survival/internal/world"
)

// StorageConfig points at the authored catalogs the world is built from.
type StorageConfig struct {
	Items  AssetConfig[*items.Definition]   `json:"items"`
	Plants AssetConfig[*world.PlantSpecies] `json:"plants"`

	// TuningPath is a yaml overlay on the built-in pacing numbers.
	// Empty means defaults.
	TuningPath string `json:"tuning_path,omitempty"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Items.Validate("items"))
	el.Add(c.Plants.Validate("plants"))

	if c.TuningPath != "" {
		if _, err := os.Stat(c.TuningPath); err != nil {
			el.Add(fmt.Errorf("tuning: invalid path %q: %w", c.TuningPath, err))
		}
	}

	return el.Err()
}

func (c *StorageConfig) BuildItemStore() (*storage.FileStore[*items.Definition], error) {
	return c.Items.BuildFileStore()
}

func (c *StorageConfig) BuildPlantStore() (*storage.FileStore[*world.PlantSpecies], error) {
	return c.Plants.BuildFileStore()
}

func (c *StorageConfig) LoadTuning() (tuning.Tuning, error) {
	return tuning.Load(c.TuningPath)
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path       string `json:"path"`
	SchemaPath string `json:"schema_path,omitempty"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	if _, err := os.Stat(c.Path); err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	var opts []storage.StoreOpt[T]
	if c.SchemaPath != "" {
		opts = append(opts, storage.WithSchema[T](c.SchemaPath))
	}
	return storage.NewFileStore[T](c.Path, opts...)
}
