package utils

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/blobscope/blobmarket"
	"github.com/ethpandaops/blobscope/config"
	"github.com/ethpandaops/blobscope/types"
)

// Config is the globally accessible configuration
var Config *types.Config

// ReadConfig will process a configuration
func ReadConfig(cfg *types.Config, path string) error {
	err := readConfigFile(cfg, path)
	if err != nil {
		return err
	}

	readConfigEnv(cfg)

	// resolve the protocol capacity parameters: preset as base, explicit
	// protocol block merged on top. This is the single source of truth for
	// target/max capacity - nothing else in the repo hardcodes these values.
	if cfg.Chain.Preset == "" {
		cfg.Chain.Preset = "current"
	}
	presetYml, err := config.ProtocolPresetsYml.ReadFile(fmt.Sprintf("%v.preset.yml", cfg.Chain.Preset))
	if err != nil {
		return fmt.Errorf("unknown blob capacity preset %q: %w", cfg.Chain.Preset, err)
	}

	protocolParams := blobmarket.ProtocolParameters{}
	err = yaml.Unmarshal(presetYml, &protocolParams)
	if err != nil {
		return fmt.Errorf("error decoding blob capacity preset %q: %w", cfg.Chain.Preset, err)
	}

	if cfg.Chain.Protocol != nil {
		err = mergo.Merge(&protocolParams, *cfg.Chain.Protocol, mergo.WithOverride)
		if err != nil {
			return fmt.Errorf("error merging protocol parameter overrides: %w", err)
		}
	}
	cfg.Chain.Protocol = &protocolParams

	// parameter violations are fatal at load time so the engine can rely on
	// valid capacity values on every call
	if err := protocolParams.Validate(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"preset":       cfg.Chain.Preset,
		"targetBlobs":  protocolParams.TargetBlobsPerBlock,
		"maxBlobs":     protocolParams.MaxBlobsPerBlock,
		"bytesPerBlob": protocolParams.BytesPerBlob,
	}).Infof("did init config")

	return nil
}

func readConfigFile(cfg *types.Config, path string) error {
	if path == "" {
		return yaml.Unmarshal([]byte(config.DefaultConfigYml), cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening config file %v: %v", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		return fmt.Errorf("error decoding config file %v: %v", path, err)
	}

	return nil
}

func readConfigEnv(cfg *types.Config) error {
	return envconfig.Process("", cfg)
}
