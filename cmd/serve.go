package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/philipparndt/golabel/internal/config"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/persist"
	"github.com/philipparndt/golabel/internal/server"
	"github.com/philipparndt/golabel/internal/session"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var (
	serveAddr      string
	serveDB        string
	serveSave      string
	serveAccessLog bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [task]",
	Short: "Serve a task over HTTP",
	Long: `Serve the state, statistics, undo/redo and the label export of a task
over HTTP. With --db, snapshots of the state are kept in a sqlite database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "sqlite database for snapshots")
	serveCmd.Flags().StringVarP(&serveSave, "save", "o", "", "state file written by POST /api/save (default <task>.state.json)")
	serveCmd.Flags().BoolVar(&serveAccessLog, "access-log", true, "log every request")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	path, err := taskPath(args)
	if err != nil {
		return err
	}
	_, sess, err := openSession(args)
	if err != nil {
		return err
	}
	defer sess.Close()

	var snapshots *persist.SnapshotStore
	if serveDB != "" {
		db, err := config.ExpandPath(serveDB)
		if err != nil {
			return err
		}
		if snapshots, err = persist.OpenSnapshotStore(db); err != nil {
			return err
		}
		defer snapshots.Close()
	}

	save := serveSave
	if save == "" {
		save = defaultSavePath(path)
	}
	srv := server.New(sess, snapshots, server.WithAccessLog(serveAccessLog), server.WithSavePath(save))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watch, err := sess.WatchTask(path, session.ReloadDebounce, nil)
	if err != nil {
		logger.Logger().Warn("config reload not available", "file", path, "error", err)
	} else {
		defer watch.Close()
	}
	go drain(ctx, sess)

	errs := make(chan error, 1)
	go func() { errs <- srv.Listen(serveAddr) }()
	fmt.Printf("Serving %s on %s\n", path, serveAddr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// drain runs the session queue until ctx is done
func drain(ctx context.Context, sess *session.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Wake():
			sess.Drain()
		}
	}
}
