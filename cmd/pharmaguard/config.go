package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pharmaguard/pharmaguard/internal/config"
)

// integerSettings are coerced to int when written so the startup loader
// never has to parse strings out of the settings file.
var integerSettings = map[string]bool{
	"max_vcf_size_mb":  true,
	"analysis_workers": true,
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage persistent settings",
		Long: "Show, get, or set values in the per-user settings file.\n" +
			"Settings are read at startup and sit below .env and environment variables.",
		Example: `  pharmaguard config                        # show all settings
  pharmaguard config set parser_backend line
  pharmaguard config set max_vcf_size_mb 10
  pharmaguard config set audit_db_path ~/.pharmaguard/audit.db
  pharmaguard config get audit_db_path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	})

	return cmd
}

// openSettings loads the settings file into a fresh viper, isolated from
// the process environment. A missing file just means no settings yet.
func openSettings() (*viper.Viper, string, error) {
	path, err := config.UserSettingsPath()
	if err != nil {
		return nil, "", err
	}
	v := viper.New()
	v.SetConfigFile(path)
	_ = v.ReadInConfig()
	return v, path, nil
}

// normalizeKey lower-cases the key and rejects anything the startup
// loader would not read.
func normalizeKey(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, k := range config.Keys {
		if strings.ToLower(k) == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown setting %q (known: %s)",
		key, strings.ToLower(strings.Join(config.Keys, ", ")))
}

func runConfigShow() error {
	v, path, err := openSettings()
	if err != nil {
		return err
	}

	settings := v.AllSettings()
	if len(settings) == 0 {
		fmt.Printf("# No settings in %s\n", path)
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("rendering settings: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	v, path, err := openSettings()
	if err != nil {
		return err
	}

	if integerSettings[key] {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s takes an integer, got %q", key, value)
		}
		v.Set(key, n)
	} else {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Set %s = %s in %s\n", key, value, path)
	return nil
}

func runConfigGet(key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	v, _, err := openSettings()
	if err != nil {
		return err
	}

	if !v.IsSet(key) {
		return fmt.Errorf("%s is not set", key)
	}
	fmt.Println(v.Get(key))
	return nil
}
