package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/tutoria/client"
)

const (
	cfgKeyAPIURL = "api_url"
	cfgKeyToken  = "token"
	cfgKeyOutput = "output"

	defaultAPIURL  = "http://localhost:8001"
	configFileName = ".tutoria.yaml"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var readPasswordFunc = term.ReadPassword

// cli holds what every command shares: config, output and the API client.
type cli struct {
	out        io.Writer
	v          *viper.Viper
	configFile string
	client     *client.Client
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out, v: viper.New()}

	root := &cobra.Command{
		Use:   "tutoria",
		Short: "Tutoria is the terminal client of the school-management API",
		Long: `Tutoria manages alumnos, cursos, competencias, inteligencias and IQ records,
talks to the AI tutor and runs the clustering from the terminal.

Settings are read from ~/.tutoria.yaml and TUTORIA_* environment variables;
flags take precedence over both.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return c.init() },
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: ~/"+configFileName+")")
	flags.String("api-url", defaultAPIURL, "base URL of the API")
	flags.String("token", "", "JWT used to authenticate (set by `tutoria profesores login`)")
	flags.StringP("output", "o", outputTable, "output format: table, json or yaml")
	_ = c.v.BindPFlag(cfgKeyAPIURL, flags.Lookup("api-url"))
	_ = c.v.BindPFlag(cfgKeyToken, flags.Lookup("token"))
	_ = c.v.BindPFlag(cfgKeyOutput, flags.Lookup("output"))

	root.AddCommand(
		c.alumnosCmd(),
		c.cursosCmd(),
		c.competenciasCmd(),
		c.inteligenciasCmd(),
		c.ciCmd(),
		c.profesoresCmd(),
		c.tutorCmd(),
		c.chatCmd(),
		c.clusteringCmd(),
		c.uploadCmd(),
		c.uiCmd(),
	)
	return root
}

// init loads the config file (a missing one is fine) and builds the API client.
func (c *cli) init() error {
	if c.configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "locating home directory")
		}
		c.configFile = filepath.Join(home, configFileName)
	}

	c.v.SetEnvPrefix("TUTORIA")
	c.v.AutomaticEnv()
	c.v.SetConfigFile(c.configFile)
	c.v.SetConfigType("yaml")
	if _, err := os.Stat(c.configFile); err == nil {
		if err := c.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading %s", c.configFile)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "reading %s", c.configFile)
	}

	switch c.v.GetString(cfgKeyOutput) {
	case outputTable, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", c.v.GetString(cfgKeyOutput))
	}

	c.client = client.New(c.v.GetString(cfgKeyAPIURL), client.WithToken(c.v.GetString(cfgKeyToken)))
	return nil
}

// saveToken stores the token in the config file, keeping its other settings.
func (c *cli) saveToken(token string) error {
	settings := make(map[string]interface{})
	content, err := os.ReadFile(c.configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, &settings); err != nil {
			return errors.Wrapf(err, "parsing %s", c.configFile)
		}
		if settings == nil {
			settings = make(map[string]interface{})
		}
	case !os.IsNotExist(err):
		return errors.Wrapf(err, "reading %s", c.configFile)
	}

	settings[cfgKeyToken] = token
	content, err = yaml.Marshal(settings)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(c.configFile, content, 0o600), "writing %s", c.configFile)
}

func intArg(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", arg)
	}
	return n, nil
}

func idArg(args []string, i int) (int, error) {
	id, err := strconv.Atoi(args[i])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", args[i])
	}
	return id, nil
}

// password returns the flag value, or prompts for it on the terminal.
func (c *cli) password(flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(c.out, prompt)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return strings.TrimSpace(string(pwd)), nil
}
