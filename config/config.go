package config

import (
	"os"
	"fmt"
	"gopkg.in/yaml.v3"

	"pixhide/cryptography"
	"pixhide/stegano/img"
	"pixhide/util"
)

/*
 * Configuration for steganography: which codec, with which parameters, and
 * where to look for decoy files when none is given explicitly.
 */
type SteganoConfig struct {
	Method		img.Method		`yaml:"method"`			// lsb or pvd
	BitsPerChannel	int			`yaml:"bits_per_channel"`	// lsb, 1..8
	MaxBitsPerPair	int			`yaml:"max_bits_per_pair"`	// pvd, 1..7
	UseAlpha	img.AlphaPolicy		`yaml:"use_alpha_channel"`	// auto, true or false
	Folder		string			`yaml:"decoy_files_folder"`
	Extensions	[]string		`yaml:"decoy_extensions"`
}

// what happens to the payload before it goes into the pixels
type CryptoConfig struct {
	Algorithm	string		`yaml:"algorithm"`	// chacha20poly1305, xchacha20poly1305, aes-256-gcm or none
	Compress	bool		`yaml:"compress"`
}

// the asynchronous boundary in front of the codecs
type WorkerConfig struct {
	Workers		uint		`yaml:"workers"`
	QueueSize	uint		`yaml:"queue_size"`
	Timeout		uint		`yaml:"timeout"`	// milliseconds, per request
}

type FullConfig struct {
	StegConfig	SteganoConfig		`yaml:"steganography_config"`
	Crypto		CryptoConfig		`yaml:"crypto_config"`
	Worker		WorkerConfig		`yaml:"worker_config"`
	Logger		util.LoggerInfo		`yaml:"logger_config"`
	Debug		bool			`yaml:"debug"`
}

func DefaultConfig() *FullConfig {
	opts := img.DefaultOptions()
	return &FullConfig{
		StegConfig: SteganoConfig{
			Method: opts.Method,
			BitsPerChannel: opts.BitsPerChannel,
			MaxBitsPerPair: opts.MaxBitsPerPair,
			UseAlpha: opts.Alpha,
			Folder: "",
			Extensions: []string{ "png", "bmp" },
		},
		Crypto: CryptoConfig{
			Algorithm: cryptography.DefaultAlgorithm,
			Compress: true,
		},
		Worker: WorkerConfig{
			Workers: 2,
			QueueSize: 16,
			Timeout: 30000,
		},
		Logger: util.LoggerInfo{
			Filename: "",
			IsColored: true,
			SaveTime: true,
			Mode: util.Error | util.Warning | util.Info,
		},
	}
}

func(s *SteganoConfig) Options() img.Options {
	return img.Options{
		Method: s.Method,
		BitsPerChannel: s.BitsPerChannel,
		MaxBitsPerPair: s.MaxBitsPerPair,
		Alpha: s.UseAlpha,
	}
}

func(c *FullConfig) Validate() error {
	if err := c.StegConfig.Options().Validate(); err != nil {
		return err
	}
	if _, err := cryptography.NormalizeAlgorithm( c.Crypto.Algorithm ); err != nil {
		return err
	}
	if c.Worker.Workers == 0 {
		return fmt.Errorf("worker_config.workers must be positive")
	}
	return nil
}

/*
 * Functions for loading and saving configuration in YAML format.
 * Keys missing from the file keep their default values.
 */
func LoadConfig(filename string, key []byte) (*FullConfig, error) {
	data, err := LoadEncrypted(filename, key)
	if err != nil {
		return nil, err
	}

	conf := DefaultConfig()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid configuration %s: %w", filename, err)
	}
	return conf, nil
}

func SaveConfig(filename string, key []byte, c *FullConfig) error {
	data, err := yaml.Marshal( c )
	if err != nil {
		return err
	}
	return SaveEncrypted(filename, key, data)
}

/*
 * Functions for saving and loading encrypted files.
 * A nil key means plain text.
 */
func LoadEncrypted(filename string, key []byte) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if key != nil && len(key) == cryptography.SymKeySize {
		return cryptography.DecryptWithKey(data, key)
	}
	// return unencrypted data
	return data, nil
}

func SaveEncrypted(filename string, key, data []byte) error {

	var err error
	if key != nil && len(key) == cryptography.SymKeySize {
		data, err = cryptography.EncryptWithKey(data, key)
		if err != nil {
			return err
		}
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return err
	}
	return nil
}
