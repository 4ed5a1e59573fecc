package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"jumanpp/config"
	"jumanpp/internal/logger"
)

var (
	cfgFile    string
	cfg        *config.Config
	rootDir    string
	logLevel   string
	serverHost string
	serverPort int
	log        logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jumanpp",
	Short: "Juman++ tokenizer client - tokenize and filter Japanese text",
	Long: `jumanpp tokenizes Japanese text with a Juman++ analyzer, either a local
jumanpp process or a Juman++ server reached over TCP, and filters the tokens by
part of speech and stopwords.

Example usage:
  jumanpp tokenize すもももももももものうち         # Tokenize with a local jumanpp
  jumanpp tokenize --server localhost 私の犬が走った  # Tokenize via a Juman++ server
  jumanpp filter --pos 名詞 --stopword の 私の犬    # Keep nouns, drop stopwords
  jumanpp batch ./corpus -o tokens.jsonl           # Tokenize every *.txt file`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("server") {
			cfg.Analyzer.Server = serverHost
		}
		if flags.Changed("port") {
			cfg.Analyzer.Port = serverPort
		}
		if flags.Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log = logger.FromConfig(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./jumanpp.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&serverHost, "server", "", "Juman++ server host (enables the socket transport)")
	rootCmd.PersistentFlags().IntVar(&serverPort, "port", 12000, "Juman++ server port")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
