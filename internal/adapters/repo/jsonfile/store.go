package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName    = "config"
	configType    = "toml"
	dataDirKey    = "data.dir"
	stateFileMode = 0o600
	stateDirMode  = 0o700
	appConfigDir  = ".cafemate"
)

// Store resolves the data directory and serializes access to the state
// files inside it. Every repository in this package shares one Store.
type Store struct {
	dataDir string
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

// NewStore resolves the data directory from viper config, defaulting to
// ~/.cafemate. A missing config file is fine; a malformed one is not.
func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultDir := filepath.Join(homeDir, appConfigDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(defaultDir)
	cfg.SetDefault(dataDirKey, defaultDir)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	dataDir := cfg.GetString(dataDirKey)
	if dataDir == "" {
		return nil, errors.New("data directory is empty")
	}
	dataDir, err = filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	return &Store{dataDir: filepath.Clean(dataDir)}, nil
}

// NewStoreAt builds a Store on an explicit directory, bypassing config
// resolution. Tests and the --data-dir flag use it.
func NewStoreAt(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("data directory is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	return &Store{dataDir: filepath.Clean(abs)}, nil
}

func (s *Store) path(elem ...string) string {
	return filepath.Join(append([]string{s.dataDir}, elem...)...)
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

// readFile decodes a state file into out. A missing file leaves out at its
// zero value and returns false.
func readFile(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read state file: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode state file %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// readTOML is readFile for the hand-editable settings record.
func readTOML(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode settings file: %w", err)
	}
	return true, nil
}

func writeTOML(path string, in any) error {
	data, err := toml.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode settings file: %w", err)
	}
	return replaceFile(path, data)
}

// writeFile encodes in and replaces path atomically via a temp file in the
// same directory.
func writeFile(path string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	return replaceFile(path, data)
}

func replaceFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(path, stateFileMode); err != nil {
		return fmt.Errorf("chmod state file: %w", err)
	}

	return nil
}
