package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultLabel names the profile created by `storyd config init`. It can't
// be removed and is the fallback when the active profile goes away.
const DefaultLabel = "Default"

const profileExt = ".yaml"

var (
	ErrNoConfig     = errors.New("no config selected")
	ErrEmptyLabel   = errors.New("label cannot be empty")
	ErrProtected    = fmt.Errorf("cannot remove the %s config", DefaultLabel)
	errProfileFound = errors.New("already exists")
	errProfileGone  = errors.New("does not exist")
)

func ConfigRoot() string {
	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "storyd")
	}

	// Linux/macOS XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "storyd")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "storyd")
}

func ConfigsDir() string {
	return filepath.Join(ConfigRoot(), "configs")
}

func CurrentLabelFile() string {
	return filepath.Join(ConfigRoot(), "current_config")
}

func profilePath(label string) string {
	return filepath.Join(ConfigsDir(), label+profileExt)
}

// checkLabel trims label, makes sure the config dirs exist and reports
// whether a profile with that label is already on disk.
func checkLabel(label string) (string, bool, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false, ErrEmptyLabel
	}
	if err := os.MkdirAll(ConfigsDir(), 0755); err != nil {
		return "", false, err
	}

	_, err := os.Stat(profilePath(label))
	return label, err == nil, nil
}

func mustExist(label string) (string, error) {
	label, ok, err := checkLabel(label)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("config %q %w", label, errProfileGone)
	}
	return label, nil
}

func mustNotExist(label string) (string, error) {
	label, ok, err := checkLabel(label)
	if err != nil {
		return "", err
	}
	if ok {
		return "", fmt.Errorf("config %q %w", label, errProfileFound)
	}
	return label, nil
}

func setCurrent(label string) error {
	return os.WriteFile(CurrentLabelFile(), []byte(label), 0644)
}

func CurrentLabel() (string, error) {
	b, err := os.ReadFile(CurrentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	label := strings.TrimSpace(string(b))
	if label == "" {
		return "", ErrNoConfig
	}
	return label, nil
}

func ActiveConfigPath() (string, error) {
	label, err := CurrentLabel()
	if err != nil {
		return "", err
	}
	return profilePath(label), nil
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

func ListConfigs() ([]ConfigInfo, error) {
	if err := os.MkdirAll(ConfigsDir(), 0755); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(ConfigsDir(), "*"+profileExt))
	if err != nil {
		return nil, err
	}

	activeLabel, _ := CurrentLabel()
	out := make([]ConfigInfo, 0, len(matches))

	for _, path := range matches {
		label := strings.TrimSuffix(filepath.Base(path), profileExt)
		out = append(out, ConfigInfo{
			Label:  label,
			Path:   path,
			Active: label == activeLabel,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func ConfigPathByLabel(label string) (string, error) {
	label, err := mustExist(label)
	if err != nil {
		return "", err
	}
	return profilePath(label), nil
}

func SwitchConfig(label string) error {
	label, err := mustExist(label)
	if err != nil {
		return err
	}
	return setCurrent(label)
}

// AddConfig imports an existing YAML file as a new profile. The file must
// parse as a config.
func AddConfig(label, srcPath string) error {
	label, err := mustNotExist(label)
	if err != nil {
		return err
	}

	if _, err := loadYAML(srcPath); err != nil {
		return fmt.Errorf("failed to read %s: %w", srcPath, err)
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	return os.WriteFile(profilePath(label), raw, 0644)
}

func CreateEmptyConfig(label string) (string, error) {
	label, err := mustNotExist(label)
	if err != nil {
		return "", err
	}

	path := profilePath(label)
	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	return path, nil
}

func RenameConfig(oldLabel, newLabel string) error {
	oldLabel, err := mustExist(oldLabel)
	if err != nil {
		return err
	}
	newLabel, err = mustNotExist(newLabel)
	if err != nil {
		return err
	}

	if err := os.Rename(profilePath(oldLabel), profilePath(newLabel)); err != nil {
		return err
	}

	if active, _ := CurrentLabel(); active == oldLabel {
		return setCurrent(newLabel)
	}

	return nil
}

// RemoveConfig deletes a profile. Removing the active one switches back to
// the Default profile first; force only skips the interactive prompt in cmd.
func RemoveConfig(label string, force bool) error {
	label, err := mustExist(label)
	if err != nil {
		return err
	}
	if label == DefaultLabel {
		return ErrProtected
	}

	if active, _ := CurrentLabel(); active == label {
		if err := SwitchConfig(DefaultLabel); err != nil {
			return fmt.Errorf("failed switching to %s: %w", DefaultLabel, err)
		}
	}

	return os.Remove(profilePath(label))
}

// InitDefaultConfig writes the Default profile and makes it active. When it
// already exists it is only activated and os.ErrExist is returned with its path.
func InitDefaultConfig() (string, error) {
	_, exists, err := checkLabel(DefaultLabel)
	if err != nil {
		return "", err
	}

	path := profilePath(DefaultLabel)
	if !exists {
		if err := SaveYAML(DefaultConfig(), path); err != nil {
			return "", err
		}
	}

	if err := setCurrent(DefaultLabel); err != nil {
		return "", err
	}

	if exists {
		return path, os.ErrExist
	}
	return path, nil
}
