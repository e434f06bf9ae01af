package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the development server.
const (
	DefaultPort        = 8000
	DefaultLaunchDelay = 1 * time.Second
)

// Errors surfaced while resolving configuration. Both mean the process
// should exit before any socket is created.
var (
	ErrInvalidPort = errors.New("invalid port")
	ErrBadRoot     = errors.New("unusable serving root")
)

// Config holds everything the server needs to start. The serving root
// is an explicit value so several servers with different roots can
// coexist in one process; nothing mutates the working directory.
type Config struct {
	// TCP port to listen on. 0 picks an ephemeral port.
	Port int
	// Directory request paths are resolved against.
	RootDir string
	// Whether to open the default browser after startup.
	OpenBrowser bool
	// How long after startup the browser opens.
	LaunchDelay time.Duration
}

// Load builds a Config from command line arguments. Environment
// variables (optionally supplied through a .env file) override the
// defaults, and arguments override both:
//
//	goserve [-dir dir] [-no-browser] [port]
func Load(args []string) (*Config, error) {
	// A missing .env file is fine; plain env vars still apply.
	godotenv.Load()

	defaultRoot, err := executableDir()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("goserve", flag.ContinueOnError)
	dir := fs.String("dir", checkEnv("GOSERVE_DIR", defaultRoot),
		"directory to serve (defaults to the directory containing the executable)")
	noBrowser := fs.Bool("no-browser", checkEnvBool("GOSERVE_NO_BROWSER", false),
		"do not open a browser after startup")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: goserve [-dir dir] [-no-browser] [port]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	port := DefaultPort
	if v, ok := os.LookupEnv("GOSERVE_PORT"); ok {
		port, err = parsePort(v)
		if err != nil {
			return nil, err
		}
	}
	switch fs.NArg() {
	case 0:
	case 1:
		port, err = parsePort(fs.Arg(0))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("too many arguments: %q", fs.Args())
	}

	root := *dir
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrBadRoot, root)
	}

	return &Config{
		Port:        port,
		RootDir:     root,
		OpenBrowser: !*noBrowser,
		LaunchDelay: DefaultLaunchDelay,
	}, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidPort, s)
	}
	if p < 0 || p > 65535 {
		return 0, fmt.Errorf("%w: %d is outside 0-65535", ErrInvalidPort, p)
	}
	return p, nil
}

// executableDir resolves the directory containing the running program,
// the default serving root. Relative asset references then work no
// matter where the server is started from.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: cannot locate executable: %v", ErrBadRoot, err)
	}
	return filepath.Dir(exe), nil
}

// checkEnv returns the value of the environment variable key when set,
// the fallback otherwise.
func checkEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func checkEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v == "true" || v == "1"
}
