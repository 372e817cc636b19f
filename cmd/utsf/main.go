package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/techforus64-cmd/frontend-sub001/internal/audit"
	"github.com/techforus64-cmd/frontend-sub001/internal/checksum"
	"github.com/techforus64-cmd/frontend-sub001/internal/config"
	"github.com/techforus64-cmd/frontend-sub001/internal/db"
	"github.com/techforus64-cmd/frontend-sub001/internal/directory"
	"github.com/techforus64-cmd/frontend-sub001/internal/importer"
	"github.com/techforus64-cmd/frontend-sub001/internal/utsf"
)

var (
	// Lazily opened database connection, shared by db-backed commands
	dbConn *db.Connection

	verbose bool
)

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "utsf",
		Short: "Freight vendor serviceability encoder",
		Long:  `Encodes raw vendor pincode coverage claims into compact UTSF documents against the master pincode directory`,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug output")

	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createDBInitCmd())
	rootCmd.AddCommand(createImportDirectoryCmd())
	rootCmd.AddCommand(createEncodeCmd())
	rootCmd.AddCommand(createChecksumCmd())
	rootCmd.AddCommand(createValidateCmd())

	defer closeDB()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		closeDB()
		os.Exit(1)
	}
}

func requireDB() *db.Connection {
	if dbConn != nil {
		return dbConn
	}
	conn, err := db.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	dbConn = conn
	return dbConn
}

func closeDB() {
	if dbConn != nil {
		dbConn.Close()
		dbConn = nil
	}
}

// createPingCmd creates a command to test database connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			conn := requireDB()

			var count int
			err := conn.DB.QueryRow("SELECT COUNT(*) FROM master_pincode").Scan(&count)
			if err != nil {
				fmt.Println("Database connected (master_pincode not initialized yet)")
				return
			}
			fmt.Printf("Database connected: %d master pincodes loaded\n", count)
		},
	}
}

func createDBInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-init",
		Short: "Create the master directory and audit tables",
		Run: func(cmd *cobra.Command, args []string) {
			conn := requireDB()

			source := &importer.PostgresSource{DB: conn.DB}
			if err := source.InitSchema(); err != nil {
				log.Fatalf("Failed to create directory schema: %v", err)
			}
			if err := audit.NewTracker(conn.DB).InitSchema(); err != nil {
				log.Fatalf("Failed to create audit schema: %v", err)
			}
			fmt.Println("Schema created")
		},
	}
}

func createImportDirectoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-directory <file.csv>",
		Short: "Import master directory records (pincode,zone,state,city) into postgres",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			conn := requireDB()

			source := &importer.PostgresSource{DB: conn.DB}
			if err := source.InitSchema(); err != nil {
				log.Fatalf("Failed to create directory schema: %v", err)
			}

			count, err := source.ImportCSV(verbose, args[0])
			if err != nil {
				log.Fatalf("Import failed: %v", err)
			}
			fmt.Printf("Imported %d master pincodes\n", count)
		},
	}
}

func createEncodeCmd() *cobra.Command {
	var (
		vendorID      string
		vendorName    string
		claimsFile    string
		pricingFile   string
		zoneCodes     string
		directoryFile string
		outFile       string
		store         bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode vendor serviceability claims into a UTSF document",
		Run: func(cmd *cobra.Command, args []string) {
			start := time.Now()

			dir := loadDirectory(directoryFile)

			req := utsf.EncodeRequest{
				VendorID:   vendorID,
				VendorName: vendorName,
			}

			if zoneCodes != "" {
				for _, code := range strings.Split(zoneCodes, ",") {
					if code = strings.TrimSpace(code); code != "" {
						req.ZoneOnlyCodes = append(req.ZoneOnlyCodes, code)
					}
				}
			}

			if claimsFile != "" {
				file, err := os.Open(claimsFile)
				if err != nil {
					log.Fatalf("Failed to open claims file: %v", err)
				}
				claims, dropped, err := importer.ParseClaimsJSON(file)
				file.Close()
				if err != nil {
					log.Fatalf("Failed to parse claims: %v", err)
				}
				if dropped > 0 {
					fmt.Fprintf(os.Stderr, "Warning: dropped %d malformed claim rows\n", dropped)
				}
				req.Claims = claims
			}

			if pricingFile != "" {
				pricing, err := os.ReadFile(pricingFile)
				if err != nil {
					log.Fatalf("Failed to read pricing file: %v", err)
				}
				req.Pricing = pricing
			}

			result, err := utsf.Encode(req, dir)
			if err != nil {
				log.Fatalf("Encode failed: %v", err)
			}

			for _, warning := range result.ReconcileWarnings {
				fmt.Fprintf(os.Stderr, "Warning: pincode %d: %s\n", warning.Pincode, warning.Reason)
			}
			for _, warning := range result.ValidationWarnings {
				fmt.Fprintf(os.Stderr, "Validation warning: %s\n", warning)
			}

			if store {
				entries := make([]checksum.Entry, len(req.Claims))
				for i, c := range req.Claims {
					entries[i] = checksum.Entry{Pincode: c.Pincode, Zone: c.ClaimedZone, IsODA: c.IsODA}
				}

				tracker := audit.NewTracker(requireDB().DB)
				run := audit.EncodeRun{
					RunID:        uuid.NewString(),
					VendorID:     vendorID,
					DocumentID:   result.Document.Meta.DocumentID,
					ClaimCount:   len(req.Claims),
					WarningCount: len(result.ReconcileWarnings) + len(result.ValidationWarnings),
					Checksum:     checksum.Checksum(entries),
					Duration:     time.Since(start),
					CreatedAt:    time.Now().UTC(),
				}
				if previous, err := tracker.LatestChecksum(vendorID); err == nil {
					run.Changed = previous != run.Checksum
				}
				if err := tracker.RecordRun(verbose, result.Document, run); err != nil {
					log.Fatalf("Failed to store document: %v", err)
				}
				fmt.Fprintf(os.Stderr, "Stored document %s\n", result.Document.Meta.DocumentID)
			}

			writeDocument(result.Document, outFile)
		},
	}

	cmd.Flags().StringVar(&vendorID, "vendor-id", "", "vendor identifier (required)")
	cmd.Flags().StringVar(&vendorName, "vendor-name", "", "vendor display name")
	cmd.Flags().StringVar(&claimsFile, "claims", "", "JSON file with serviceability claims")
	cmd.Flags().StringVar(&pricingFile, "pricing", "", "JSON file passed through as the pricing section")
	cmd.Flags().StringVar(&zoneCodes, "zones", "", "comma-separated zone-only claim codes (alternative to --claims)")
	cmd.Flags().StringVar(&directoryFile, "directory", "", "master directory CSV (defaults to postgres)")
	cmd.Flags().StringVar(&outFile, "out", "", "write the document to a file instead of stdout")
	cmd.Flags().BoolVar(&store, "store", false, "store the document and encode run in postgres")
	cmd.MarkFlagRequired("vendor-id")

	return cmd
}

func createChecksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <claims.json>",
		Short: "Print the canonical checksum of a serviceability claims file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			file, err := os.Open(args[0])
			if err != nil {
				log.Fatalf("Failed to open claims file: %v", err)
			}
			defer file.Close()

			claims, dropped, err := importer.ParseClaimsJSON(file)
			if err != nil {
				log.Fatalf("Failed to parse claims: %v", err)
			}
			if dropped > 0 {
				fmt.Fprintf(os.Stderr, "Warning: dropped %d malformed claim rows\n", dropped)
			}

			entries := make([]checksum.Entry, len(claims))
			for i, c := range claims {
				entries[i] = checksum.Entry{Pincode: c.Pincode, Zone: c.ClaimedZone, IsODA: c.IsODA}
			}
			fmt.Println(checksum.Checksum(entries))
		},
	}
}

func createValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document.json>",
		Short: "Run consistency checks over a UTSF document",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				log.Fatalf("Failed to read document: %v", err)
			}

			var doc utsf.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				log.Fatalf("Failed to parse document: %v", err)
			}

			result := utsf.Validate(&doc)
			if result.IsValid {
				fmt.Println("Document is valid")
				return
			}

			fmt.Printf("Document has %d issues:\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Printf("  - %s\n", e)
			}
			os.Exit(1)
		},
	}
}

func loadDirectory(directoryFile string) *directory.Directory {
	if directoryFile != "" {
		records, err := importer.LoadDirectoryCSV(verbose, directoryFile)
		if err != nil {
			log.Fatalf("Failed to load directory CSV: %v", err)
		}
		dir, err := directory.Load(records)
		if err != nil {
			log.Fatalf("Failed to build directory: %v", err)
		}
		return dir
	}

	loader := directory.NewLoader(&importer.PostgresSource{DB: requireDB().DB})
	dir, err := loader.Directory()
	if err != nil {
		log.Fatalf("Failed to load master directory: %v", err)
	}
	return dir
}

func writeDocument(doc *utsf.Document, outFile string) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal document: %v", err)
	}

	if outFile == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		log.Fatalf("Failed to write document: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", outFile)
}
