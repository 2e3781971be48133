package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"rte/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	EntryTypeConfig struct {
		Handle              string `yaml:"handle" validate:"required"`
		Name                string `yaml:"name"`
		Template            string `yaml:"template"`
		UseTemplateInEditor bool   `yaml:"use_template_in_editor"`
		HasTitle            bool   `yaml:"has_title"`
		Icon                string `yaml:"icon"`
	}

	FieldConfig struct {
		ID           int64                    `yaml:"id" validate:"min=1"`
		Handle       string                   `yaml:"handle" validate:"required"`
		Name         string                   `yaml:"name"`
		Types        []EntryTypeConfig        `yaml:"types" validate:"dive"`
		Translatable bool                     `yaml:"translatable"`
		Propagation  common.PropagationMethod `yaml:"propagation"`
		Purify       bool                     `yaml:"purify"`
		Embeds       common.EmbedStyle        `yaml:"embeds"`
		DefaultMode  common.RenderMode        `yaml:"default_mode"`
	}

	CardConfig struct {
		AutoReload    bool `yaml:"auto_reload"`
		ShowDraftName bool `yaml:"show_draft_name"`
		ShowStatus    bool `yaml:"show_status"`
		ShowThumb     bool `yaml:"show_thumb"`
	}

	RenderConfig struct {
		TemplatesDir string       `yaml:"templates_dir" sanitize:"path_clean"`
		AssetsDir    string       `yaml:"assets_dir" sanitize:"path_clean"`
		ThumbSize    int          `yaml:"thumb_size" validate:"min=16,max=1024"`
		JPEGQuality  int          `yaml:"jpeg_quality" validate:"min=40,max=100"`
		Card         CardConfig   `yaml:"card"`
		LicenseKey   SecretString `yaml:"license_key,omitempty"`
	}

	StoreConfig struct {
		Path     string `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required"`
		PoolSize int    `yaml:"pool_size" validate:"min=0,max=64"`
	}

	SiteConfig struct {
		Handle   string `yaml:"handle" validate:"required"`
		Language string `yaml:"language"`
		Group    int64  `yaml:"group"`
		Primary  bool   `yaml:"primary"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Field     FieldConfig    `yaml:"field"`
		Render    RenderConfig   `yaml:"render"`
		Store     StoreConfig    `yaml:"store"`
		Sites     []SiteConfig   `yaml:"sites" validate:"min=1,dive"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// TypeHandles lists the entry type handles creatable inside the field.
func (f *FieldConfig) TypeHandles() []string {
	handles := make([]string, 0, len(f.Types))
	for _, t := range f.Types {
		handles = append(handles, t.Handle)
	}
	return handles
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
