package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harun/vidya/pkg/chat"
	"github.com/harun/vidya/pkg/language"
)

var (
	chatLang    string
	chatSession string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session in the terminal. Questions are
answered in the language they were asked in; use --lang to force a
response language instead of auto-detecting. Type "quit" or "exit"
to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatLang, "lang", "", "force response language (en, hi, te) instead of auto-detecting")
	chatCmd.Flags().StringVar(&chatSession, "session", "", "resume an existing session key")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	forced := language.Unknown
	if chatLang != "" {
		lang, err := language.Parse(chatLang)
		if err != nil {
			return err
		}
		forced = lang
	}

	// Console logging off: log lines would interleave with the transcript.
	rt, err := bootstrap(ctx, false)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.sweeper.Start(); err != nil {
		return err
	}

	sessionID := chatSession
	if sessionID == "" {
		sessionID = rt.engine.NewSession()
	}

	fmt.Println(rt.engine.Greeting(forced))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "quit", "exit":
			fmt.Println("Goodbye!")
			return nil
		case "":
			continue
		}

		exchangeCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		exchange, err := rt.engine.Respond(exchangeCtx, sessionID, line, forced)
		cancel()

		if err != nil {
			if errors.Is(err, chat.ErrEmptyInput) {
				continue
			}
			fmt.Printf("\n%s\n\n", rt.engine.FailureNotice(err))
			continue
		}

		fmt.Printf("\n[%s]\n%s\n\n", exchange.Language.Name(), exchange.Answer.Raw)
	}

	return scanner.Err()
}
