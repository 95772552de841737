package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"ocpulse/internal/dataset"
	"ocpulse/internal/engine"
	"ocpulse/internal/exporter"
	"ocpulse/internal/services"
	"ocpulse/internal/store"
	"ocpulse/pkg/contracts/domain"
)

func main() {
	_ = godotenv.Load()

	expertoPath := flag.String("experto", "", "path to the expert requisition export (.xlsx, .xls or .csv)")
	canceladosPath := flag.String("cancelados", "", "optional path to the cancelled requisition list")
	precompraPath := flag.String("precompra", "", "optional path to the pre-purchase commitment list")
	resultadoPath := flag.String("resultado-oc", "", "optional path to the purchase order results export")
	historicoPath := flag.String("historico", "", "historical expert export, required with -resultado-oc")
	tipoFiltro := flag.String("tipo-filtro", "", "restrict reconciliation KPIs to one purchase type")
	outDir := flag.String("out", "reports", "output directory for CSV files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *expertoPath == "" {
		logger.Error("missing required -experto flag")
		flag.Usage()
		os.Exit(2)
	}
	if *resultadoPath != "" && *historicoPath == "" {
		logger.Error("-resultado-oc requires -historico")
		os.Exit(2)
	}

	ctx := context.Background()
	memStore := store.NewMemoryStore()

	experto := mustRead(logger, *expertoPath)
	var cancelados, precompra *dataset.Dataset
	if *canceladosPath != "" {
		cancelados = mustRead(logger, *canceladosPath)
	}
	if *precompraPath != "" {
		precompra = mustRead(logger, *precompraPath)
	}

	classification := services.NewClassificationService(memStore, logger, nil)
	clsResult := classification.Classify(ctx, experto, cancelados, precompra)
	printMessages(clsResult.Messages)
	if !clsResult.Success {
		os.Exit(1)
	}

	fmt.Printf("processed: %d\nin process: %d\nunclassified: %d\n",
		len(clsResult.Processed), len(clsResult.InProcess), clsResult.UnclassifiedCount)

	reqPath := filepath.Join(*outDir, "requisitions.csv")
	if err := writeRequisitionsFile(reqPath, clsResult.Processed, clsResult.InProcess); err != nil {
		logger.Error("failed to write requisition export", "error", err)
		os.Exit(1)
	}
	logger.Info("wrote requisition export", "path", reqPath)

	if *resultadoPath == "" {
		return
	}

	resultado := mustRead(logger, *resultadoPath)
	historico := mustRead(logger, *historicoPath)

	reconciliation := services.NewReconciliationService(memStore, logger, nil)
	recResult := reconciliation.Reconcile(ctx, resultado, historico, engine.ReconcileOptions{
		PurchaseTypeFilter: *tipoFiltro,
	})
	printMessages(recResult.Messages)
	if !recResult.Success {
		os.Exit(1)
	}

	fmt.Printf("merged: %d\nunmatched: %d\ngross: %.2f\nvalid: %.2f\nconforming: %.2f\neffectiveness: %.2f%%\n",
		len(recResult.MergedRecords), len(recResult.UnmatchedCodes),
		recResult.KPIs.Gross, recResult.KPIs.Valid, recResult.KPIs.Conforming, recResult.KPIs.Effectiveness)

	finPath := filepath.Join(*outDir, "financial.csv")
	if err := writeFinancialFile(finPath, recResult.MergedRecords); err != nil {
		logger.Error("failed to write financial export", "error", err)
		os.Exit(1)
	}
	logger.Info("wrote financial export", "path", finPath)
}

func mustRead(logger *slog.Logger, path string) *dataset.Dataset {
	ds, err := dataset.ReadFile(path)
	if err != nil {
		logger.Error("failed to read input file", "path", path, "error", err)
		os.Exit(1)
	}
	return ds
}

func printMessages(messages []domain.Message) {
	for _, msg := range messages {
		fmt.Printf("[%s] %s\n", msg.Category, msg.Text)
	}
}

func writeRequisitionsFile(path string, processed, inProcess []domain.Requisition) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exporter.WriteRequisitions(file, processed, inProcess)
}

func writeFinancialFile(path string, records []domain.FinancialRecord) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exporter.WriteFinancialRecords(file, records)
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
