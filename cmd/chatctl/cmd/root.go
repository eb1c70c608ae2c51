package cmd

import (
	"errors"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Irfan-Alaam/chat-app/chat"
	"github.com/Irfan-Alaam/chat-app/chat/rest"
	"github.com/Irfan-Alaam/chat-app/internal/config"
	"github.com/Irfan-Alaam/chat-app/internal/logging"
	"github.com/Irfan-Alaam/chat-app/internal/tokenstore"
)

// app is what every command needs once flags and environment are resolved.
type app struct {
	settings config.Settings
	api      *rest.Client
	tokens   *tokenstore.Store
	log      zerolog.Logger
}

var (
	cli *app

	flagEnvFile   string
	flagBaseURL   string
	flagLogLevel  string
	flagLogFormat string
	flagTokenFile string
)

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Terminal client for the chat server",
	Long: `chatctl talks to the chat server: account management, the room directory,
admin tools and an interactive room session.

Settings come from the environment (CHAT_BASE_URL, CHAT_TOKEN_FILE, LOG_LEVEL, ...),
optionally loaded from a .env file. Flags win over both.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		log.Debug().Err(err).Msg("command failed")
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagEnvFile, "env-file", ".env", "dotenv file to load if present")
	flags.StringVar(&flagBaseURL, "base-url", "", "chat server URL (overrides CHAT_BASE_URL)")
	flags.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flags.StringVar(&flagLogFormat, "log-format", "", "console or json (overrides LOG_FORMAT)")
	flags.StringVar(&flagTokenFile, "token-file", "", "where the login token is kept (overrides CHAT_TOKEN_FILE)")
}

func setup(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(flagEnvFile)
	if err != nil {
		return err
	}
	if flagBaseURL != "" {
		settings.Chat.BaseURL = flagBaseURL
		if err := settings.Chat.Validate(); err != nil {
			return err
		}
	}
	if flagLogLevel != "" {
		settings.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		settings.LogFormat = flagLogFormat
	}
	if flagTokenFile != "" {
		settings.TokenFile = flagTokenFile
	}

	zl, err := logging.New(os.Stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	log.Logger = zl

	api := rest.NewClient(settings.Chat.BaseURL)
	api.SetTimeout(settings.Chat.RequestTimeout)

	cli = &app{
		settings: settings,
		api:      api,
		tokens:   tokenstore.New(afero.NewOsFs(), settings.TokenFile),
		log:      zl,
	}
	zl.Debug().Str("base_url", settings.Chat.BaseURL).Str("token_file", settings.TokenFile).Msg("configured")
	return nil
}

// authenticate loads the stored token and attaches it to the REST client.
func (a *app) authenticate() (string, rest.Claims, error) {
	token, claims, err := a.tokens.Load()
	switch {
	case errors.Is(err, tokenstore.ErrNoToken):
		return "", rest.Claims{}, errors.New("not logged in: run chatctl login")
	case err != nil:
		return "", rest.Claims{}, err
	}
	a.api.SetToken(token)
	return token, claims, nil
}

// check turns a REST failure into the message shown to the user. A rejected
// token is forgotten so the next command asks for a fresh login.
func (a *app) check(err error) error {
	if err == nil {
		return nil
	}
	if rest.IsStatus(err, http.StatusUnauthorized) {
		if cerr := a.tokens.Clear(); cerr != nil {
			a.log.Warn().Err(cerr).Msg("clear token")
		}
		return errors.New("session expired, log in again")
	}
	a.log.Debug().Err(err).Str("kind", chat.Classify(err).String()).Msg("request failed")
	return errors.New(chat.Detail(err, err.Error()))
}
