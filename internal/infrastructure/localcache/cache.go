// Package localcache guarda el último usuario conocido en un archivo JSON,
// análogo al cache local de un cliente web. Nunca es autoritativo: el Store
// lo publica como provisional y lo pisa con el resultado del chequeo remoto.
package localcache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jhoicas/PrecoMonitor-api/internal/application/session"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
)

var _ session.Cache = (*FileCache)(nil)

// FileCache cache de usuario sobre un archivo JSON.
type FileCache struct {
	path string
}

// New construye el cache sobre path.
func New(path string) *FileCache {
	return &FileCache{path: path}
}

// Load lee el último usuario guardado. Archivo ausente o corrupto cuenta
// como cache vacío, nunca como error: el dato es solo un adelanto de UI.
func (c *FileCache) Load() *entity.User {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}
	var u entity.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil
	}
	if u.ID == "" {
		return nil
	}
	return &u
}

// Save guarda el usuario autenticado.
func (c *FileCache) Save(user *entity.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(c.path, data, 0o600)
}

// Clear borra el archivo. Un archivo que ya no existe no es error.
func (c *FileCache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
