package main
import (
	"os"
	"fmt"
	"errors"
	"context"
	"strconv"
	"io/fs"
	"os/signal"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pixhide/util"
	"pixhide/config"
	"pixhide/worker"
	"pixhide/protocol"
	"pixhide/cryptography"
	"pixhide/stegano/img"
)

const (
	PixhideFolder = ".pixhide"
	ConfigFilename = "config.yaml"
	ConfigVariableName = "PIXHIDE_CONFIG"
)

func main() {

	if len( os.Args ) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		help()
		return
	}

	configFile, err := configPath()
	if err != nil {
		fatal("Failed to locate configuration:", err)
	}

	// the only command which must be handled before reading configuration
	if os.Args[1] == "genconf" {
		if len( os.Args ) > 2 {
			configFile = os.Args[2]
		}
		if err = genConf( configFile ); err != nil {
			fatal("Failed to generate configuration:", err)
		}
		fmt.Println("Configuration saved to", configFile)
		return
	}

	conf, err := loadConfig( configFile )
	if err != nil {
		fatal("Failed to load configuration:", err)
	}
	util.DebugMode = conf.Debug
	logger := util.NewLogger( &conf.Logger )

	ctx, stop := signal.NotifyContext( context.Background(), os.Interrupt )
	defer stop()

	pool := worker.New( conf.Worker, logger )
	defer pool.Close()

	switch os.Args[1] {
	case "hide":
		if len( os.Args ) < 5 {
			help()
			return
		}
		err = hide( ctx, pool, conf, logger, os.Args[2], os.Args[3], os.Args[4] )
	case "reveal":
		if len( os.Args ) < 4 {
			help()
			return
		}
		alpha := ""
		if len( os.Args ) > 4 {
			alpha = os.Args[4]
		}
		err = reveal( ctx, pool, conf, logger, os.Args[2], os.Args[3], alpha )
	case "capacity":
		if len( os.Args ) < 3 {
			help()
			return
		}
		payloadLen := 0
		if len( os.Args ) > 3 {
			if payloadLen, err = strconv.Atoi( os.Args[3] ); err != nil {
				fatal("Invalid payload size:", err)
			}
		}
		err = capacity( ctx, pool, conf, os.Args[2], payloadLen )
	case "readlog":
		var data []byte
		if data, err = logger.ReadLog(); err == nil {
			fmt.Printf("%s", data)
		}
	default:
		help()
		return
	}
	if err != nil {
		logger.LogError( err )
		pool.Close()
		fatal( "Failed to " + os.Args[1] + ":", err )
	}
}

func configPath() (string, error) {
	if path, ok := os.LookupEnv( ConfigVariableName ); ok && path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join( home, PixhideFolder, ConfigFilename ), nil
}

// a missing configuration file means defaults
func loadConfig( configFile string ) (*config.FullConfig, error) {
	conf, err := config.LoadConfig( configFile, nil )
	if errors.Is( err, fs.ErrNotExist ) {
		util.DebugPrintln( "No configuration at", configFile, "using defaults" )
		return config.DefaultConfig(), nil
	}
	return conf, err
}

func genConf( configFile string ) error {
	if _, err := os.Stat( configFile ); err == nil {
		return fmt.Errorf("%s already exists", configFile)
	}
	if err := os.MkdirAll( filepath.Dir( configFile ), 0700 ); err != nil {
		return err
	}
	return config.SaveConfig( configFile, nil, config.DefaultConfig() )
}

func password( conf *config.FullConfig ) ([]byte, error) {
	alg, err := cryptography.NormalizeAlgorithm( conf.Crypto.Algorithm )
	if err != nil {
		return nil, err
	}
	if alg == cryptography.NoEncryption {
		return nil, nil
	}
	return util.GetPasswd("Password: ")
}

func hide( ctx context.Context, pool *worker.Pool, conf *config.FullConfig, logger *util.Logger,
	decoy, messageFile, out string ) error {

	message, err := os.ReadFile( messageFile )
	if err != nil {
		return err
	}
	pass, err := password( conf )
	if err != nil {
		return err
	}
	prepared, err := protocol.Prepare( message, pass, &conf.Crypto )
	if err != nil {
		return err
	}

	opts := conf.StegConfig.Options()
	var stego []byte
	var used img.Options

	info, err := os.Stat( decoy )
	if err != nil {
		return err
	}
	if info.IsDir() {
		decoy, stego, used, err = protocol.HideInFile( ctx, pool, decoy,
			conf.StegConfig.Extensions, prepared, opts )
	} else {
		var decoyBytes []byte
		if decoyBytes, err = os.ReadFile( decoy ); err != nil {
			return err
		}
		stego, used, err = pool.Hide( ctx, decoyBytes, prepared, opts )
	}
	if err != nil {
		return err
	}
	if err = os.WriteFile( out, stego, 0600 ); err != nil {
		return err
	}

	logger.LogInfo( fmt.Sprintf("Hid %d bytes (%d prepared, sha512 %s) from %s in %s using %s, alpha channel %s",
		len(message), len(prepared), fingerprint( message ), decoy, out, used.Method, used.Alpha) )
	if opts.Alpha == img.AlphaAuto {
		// auto may resolve differently on the new image
		logger.LogWarning( fmt.Sprintf("Reveal with: pixhide reveal %s <out> %s", out, used.Alpha) )
	}
	return nil
}

func reveal( ctx context.Context, pool *worker.Pool, conf *config.FullConfig, logger *util.Logger,
	stegoFile, out, alpha string ) error {

	opts, err := revealOptions( conf, alpha )
	if err != nil {
		return err
	}
	stego, err := os.ReadFile( stegoFile )
	if err != nil {
		return err
	}
	revealed, err := protocol.RevealFromFile( ctx, pool, stegoFile, stego, opts )
	if err != nil {
		return err
	}
	pass, err := password( conf )
	if err != nil {
		return err
	}
	message, err := protocol.Restore( revealed, pass, &conf.Crypto )
	if err != nil {
		return err
	}
	if err = os.WriteFile( out, message, 0600 ); err != nil {
		return err
	}
	logger.LogInfo( fmt.Sprintf("Revealed %d bytes (sha512 %s) from %s",
		len(message), fingerprint( message ), stegoFile) )
	return nil
}

// alpha given on the command line wins over use_alpha_channel
func revealOptions( conf *config.FullConfig, alpha string ) (img.Options, error) {
	opts := conf.StegConfig.Options()
	if alpha == "" {
		return opts, nil
	}
	policy, err := img.ParseAlphaPolicy( alpha )
	if err != nil {
		return opts, err
	}
	opts.Alpha = policy
	return opts, nil
}

// short hash to compare what was hidden with what was revealed
func fingerprint( data []byte ) string {
	hash := cryptography.Hash( data )
	if len(hash) > 16 {
		return hash[:16]
	}
	return "-"
}

func capacity( ctx context.Context, pool *worker.Pool, conf *config.FullConfig,
	image string, payloadLen int ) error {

	data, err := os.ReadFile( image )
	if err != nil {
		return err
	}
	c, err := pool.Capacity( ctx, data, payloadLen, conf.StegConfig.Options() )
	if err != nil {
		return err
	}
	res, err := yaml.Marshal( map[string]any{
		"method": c.Method.String(),
		"alpha_channel": c.Alpha,
		"capacity_bits": c.CapacityBits,
		"max_payload": c.MaxPayload,
		"required_bits": c.RequiredBits,
		"fits": c.Fits,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s", res)
	return nil
}

func fatal( args ...any ) {
	fmt.Fprintln( os.Stderr, args... )
	os.Exit(-1)
}

func help() {
	line := `Usage: ./pixhide <command> [arguments]

The following commands are supported:
	hide <decoy|folder> <message> <out>	hide message file in a png/bmp decoy
						(or a random one from folder)
	reveal <stego> <out> [alpha]		extract a hidden message; alpha is
						auto, always or never as printed by hide
	capacity <image> [payload size]		show how much the image holds
	genconf [path]				write default configuration
	readlog					read log file

Configuration is read from $PIXHIDE_CONFIG or ~/.pixhide/config.yaml,
the password from $PIXHIDE_PASSWORD or the terminal.
`
	fmt.Printf("%s", line)
}
