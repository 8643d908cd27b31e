package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/talentscout/internal/interview"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the transcript of the most recent stored session",
	Run: func(_ *cobra.Command, _ []string) {
		history()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func history() {
	ctx := context.Background()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %v\n", err)
		os.Exit(1)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	dsn, err := secrets.Load(secrets.Source{
		Name:  "postgres dsn",
		Value: config.Storage.DSN,
		File:  config.Storage.DSNFile,
		Env:   "TALENTSCOUT_DB_DSN",
	})
	if err != nil {
		log.Fatal(
			"resolving postgres dsn",
			zap.Error(err),
			zap.String("hint", "set TALENTSCOUT_DB_DSN or the 'storage.dsn' key in the configuration file"),
		)
	}

	pg, err := store.NewPostgres(dsn)
	if err != nil {
		log.Fatal("connecting to postgres", zap.Error(err))
	}
	defer pg.Close()

	doc, err := pg.Latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("no stored sessions found")
		return
	}
	if err != nil {
		log.Fatal("loading the latest session", zap.Error(err))
	}

	session, err := interview.SessionFromDocument(doc)
	if err != nil {
		log.Fatal("decoding the latest session", zap.Error(err))
	}

	printSession(session)
}

func printSession(session *interview.Session) {
	fmt.Printf("Session ID: %s\n", session.ID)
	fmt.Printf("Candidate: %s (%s)\n",
		emptyAs(session.Profile.FullName, "unknown"),
		emptyAs(session.Profile.Email, "no email"),
	)
	fmt.Printf("Stage: %s\n", session.Stage)
	fmt.Println(strings.Repeat("-", 50))

	messages := session.Transcript.Messages()
	if len(messages) == 0 {
		fmt.Println("No conversation history found.")
		return
	}

	for _, msg := range messages {
		fmt.Printf("[%s]: %s\n", strings.ToUpper(msg.Role), msg.Content)
		fmt.Println(strings.Repeat("-", 20))
	}
}

func emptyAs(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
