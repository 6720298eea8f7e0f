// Command contact submits the portfolio contact form from a terminal.
//
//	contact -endpoint http://localhost:8080/api/send-email -name Alice -email alice@x.com -message "Hi"
//
// The message is read from stdin when -message is omitted.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"portfolio-backend/internal/client/form"
	"portfolio-backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	endpoint := fs.String("endpoint", "http://localhost:8080/api/send-email", "send-email endpoint URL")
	name := fs.String("name", "", "your name")
	mail := fs.String("email", "", "your email address")
	message := fs.String("message", "", "message text (stdin when empty)")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	verbose := fs.Bool("v", false, "log transport errors")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	zlog := zap.NewNop()
	if *verbose {
		l, err := logger.Init("debug")
		if err == nil {
			zlog = l
		}
	}

	if *message == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stdout, "read message: %v\n", err)
			return 1
		}
		*message = string(b)
	}

	c := form.New(*endpoint,
		form.WithLogger(zlog),
		form.WithObserver(func(s form.Snapshot) {
			if s.State.IsLoading() {
				fmt.Fprintln(stdout, "Sending...")
			}
		}),
	)
	defer c.Close()

	c.SetName(*name)
	c.SetEmail(*mail)
	c.SetMessage(*message)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	st, err := c.Submit(ctx)
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}

	return printBanner(stdout, st)
}

func printBanner(w io.Writer, st form.State) int {
	switch st.Status {
	case form.StatusSucceeded:
		fmt.Fprintln(w, "Message sent! I'll get back to you soon.")
		return 0
	default:
		fmt.Fprintln(w, st.ErrorMessage)
		return 1
	}
}
