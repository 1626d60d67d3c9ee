// cotizactl es la herramienta de línea de comandos para operar la
// sincronización local↔remoto sin pasar por la API: reconciliar, empujar lo
// pendiente e importar del remoto.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appsync "github.com/tu-usuario/cotizador-pro/internal/application/sync"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/remote"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/sqlite"
	"github.com/tu-usuario/cotizador-pro/pkg/config"
	"github.com/tu-usuario/cotizador-pro/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newSyncEnv abre el almacén local y el espejo remoto según la configuración.
// El caller debe invocar close().
func newSyncEnv(ctx context.Context) (*appsync.Reconciler, *appsync.Pusher, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	db, err := sqlite.Open(cfg.Local.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("abrir base local %s: %w", cfg.Local.Path, err)
	}
	remoteRepo, closeRemote, err := remote.New(ctx, cfg.Remote)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("conectar espejo remoto (%s): %w", cfg.Remote.Backend, err)
	}

	local := sqlite.NewQuoteRepository(db)
	reconciler := appsync.NewReconciler(local, remoteRepo, log)
	pusher := appsync.NewPusher(local, remoteRepo, log, appsync.Options{
		PushTimeout: cfg.Sync.PushTimeout,
		BatchSize:   cfg.Sync.BatchSize,
	})
	closeAll := func() {
		closeRemote()
		db.Close()
	}
	return reconciler, pusher, closeAll, nil
}

var rootCmd = &cobra.Command{
	Use:   "cotizactl",
	Short: "Operación de sincronización de cotizaciones",
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Comparar local y remoto y emitir el informe de discrepancias",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		reconciler, _, closeAll, err := newSyncEnv(ctx)
		if err != nil {
			return err
		}
		defer closeAll()

		report, err := reconciler.Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("reconciliar: %w", err)
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		if report.Clean() {
			fmt.Fprintln(os.Stderr, "sin discrepancias: local y remoto convergen")
		}
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Empujar ahora al remoto todos los registros pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, pusher, closeAll, err := newSyncEnv(ctx)
		if err != nil {
			return err
		}
		defer closeAll()

		pushed, failed := pusher.Flush(ctx)
		fmt.Printf("empujados: %d, fallidos: %d\n", pushed, failed)
		if failed > 0 {
			return fmt.Errorf("%d registros no pudieron sincronizarse", failed)
		}
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Importar del remoto los registros ausentes en local",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		reconciler, _, closeAll, err := newSyncEnv(ctx)
		if err != nil {
			return err
		}
		defer closeAll()

		imported, err := reconciler.PullRemote(ctx)
		if err != nil {
			return fmt.Errorf("importar del remoto: %w", err)
		}
		fmt.Printf("importados: %d\n", imported)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
}
