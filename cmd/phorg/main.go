package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	apperrors "phorg/internal/errors"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		}
		os.Exit(1)
	}
}
