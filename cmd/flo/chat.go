package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/AIter-Team/Flo/core"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat with the assistant",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "session id to resume (default: a new session)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	handle, err := buildTeam(logger)
	if err != nil {
		return err
	}
	defer handle.Close()

	sessionID := chatSessionID
	if sessionID == "" {
		sessionID = core.NewID()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Printf("flo %s — session %s (type 'exit' to quit)\n", rootCmd.Version, sessionID)

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}
		line.AppendHistory(input)

		turn, err := handle.Router.Submit(ctx, sessionID, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for notice := range turn.Progress {
				fmt.Printf("\r\033[2K… %s\n", notice)
			}
		}()

		fmt.Print("flo> ")
		for chunk := range turn.Chunks {
			fmt.Print(chunk)
		}
		fmt.Println()
		wg.Wait()

		if err := turn.Wait(); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
		}
	}
}
