// Package profile defines the network endpoints coractl talks to.
package profile

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Profile is one network's endpoint set.
type Profile struct {
	Name         string `yaml:"name" validate:"required"`
	NodeURL      string `yaml:"node_url" validate:"required,url"`
	FaucetURL    string `yaml:"faucet_url" validate:"omitempty,url"`
	WebFaucetURL string `yaml:"web_faucet_url" validate:"omitempty,url"`
	ExplorerURL  string `yaml:"explorer_url" validate:"omitempty,url"`
}

// HasFaucet reports whether the network dispenses test funds at all.
// Mainnet does not.
func (p Profile) HasFaucet() bool {
	return p.FaucetURL != "" || p.WebFaucetURL != ""
}

// Built-in profiles, endpoints per the Cora backend configuration.
var builtin = map[string]Profile{
	"devnet": {
		Name:         "devnet",
		NodeURL:      "https://fullnode.devnet.aptoslabs.com/v1",
		FaucetURL:    "https://faucet.devnet.aptoslabs.com",
		WebFaucetURL: "https://aptos.dev/network/faucet",
		ExplorerURL:  "https://explorer.aptoslabs.com",
	},
	"testnet": {
		Name:         "testnet",
		NodeURL:      "https://fullnode.testnet.aptoslabs.com/v1",
		FaucetURL:    "https://faucet.testnet.aptoslabs.com",
		WebFaucetURL: "https://aptos.dev/network/faucet",
		ExplorerURL:  "https://explorer.aptoslabs.com",
	},
	"mainnet": {
		Name:        "mainnet",
		NodeURL:     "https://fullnode.mainnet.aptoslabs.com/v1",
		ExplorerURL: "https://explorer.aptoslabs.com",
	},
}

var validate = validator.New()

// Builtin returns a built-in profile by network name.
func Builtin(name string) (Profile, error) {
	p, ok := builtin[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown network %q (want devnet, testnet, or mainnet)", name)
	}
	return p, nil
}

// Names returns the built-in network names.
func Names() []string {
	return []string{"devnet", "testnet", "mainnet"}
}

// LoadFile reads a custom profile from a YAML file and validates it.
func LoadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("invalid profile YAML: %w", err)
	}

	if err := validate.Struct(p); err != nil {
		return Profile{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return p, nil
}

// Resolve picks the profile for a run: a custom file when given,
// otherwise the built-in for the network name.
func Resolve(network, profilePath string) (Profile, error) {
	if profilePath != "" {
		return LoadFile(profilePath)
	}
	return Builtin(network)
}
