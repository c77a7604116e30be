package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	customerapp "github.com/crm/backend/internal/application/customer"
	identityapp "github.com/crm/backend/internal/application/identity"
	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/crm/backend/internal/application/seed"
	supportapp "github.com/crm/backend/internal/application/support"
	workflowapp "github.com/crm/backend/internal/application/workflow"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	tenant   string
	actor    string
	logLevel string
}

// env holds what every subcommand needs once the database is open
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *persistence.Database
	tenantID uuid.UUID
	seeder   *seed.Seeder
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.log.Warn("Error closing database", zap.Error(err))
	}
	_ = logger.Sync(e.log)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the CRM database",
		Long:          `seed writes demo customers, leads, deals and tickets or imports workflow rules for one tenant, using the configured database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.tenant, "tenant", shared.DefaultTenantID.String(), "tenant id to seed")
	root.PersistentFlags().StringVar(&opts.actor, "actor", "seed", "name recorded as creator")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newDataCmd(opts), newRulesCmd(opts), newAdminCmd(opts))
	return root
}

func newDataCmd(opts *rootOptions) *cobra.Command {
	var (
		counts   seed.Counts
		fakeSeed uint64
	)
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Generate fake customers, leads, deals and tickets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := e.seeder.SeedData(ctx, e.tenantID, uuid.Nil, opts.actor, seed.NewGenerator(fakeSeed), counts)
			printResult(cmd.OutOrStdout(), e.tenantID, res)
			return err
		},
	}
	cmd.Flags().IntVar(&counts.Customers, "customers", 20, "customers to create")
	cmd.Flags().IntVar(&counts.Leads, "leads", 40, "leads to create")
	cmd.Flags().IntVar(&counts.Deals, "deals", 15, "deals to create")
	cmd.Flags().IntVar(&counts.Tickets, "tickets", 10, "tickets to create")
	cmd.Flags().Uint64Var(&fakeSeed, "seed", 0, "faker seed; 0 picks a random one")
	return cmd
}

func newRulesCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Import workflow rules from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			rules, err := seed.LoadRules(f)
			if err != nil {
				return err
			}

			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.close()

			res, err := e.seeder.SeedRules(cmd.Context(), e.tenantID, opts.actor, rules)
			printResult(cmd.OutOrStdout(), e.tenantID, res)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "rule file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAdminCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Create the bootstrap administrator if missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.close()

			created, err := identityapp.EnsureAdmin(cmd.Context(), persistence.NewGormUserRepository(e.db.DB), e.cfg.Seed, e.log)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Username", "Email", "Created")
			table.Append([]string{e.cfg.Seed.AdminUsername, e.cfg.Seed.AdminEmail, fmt.Sprint(created)})
			return table.Render()
		},
	}
}

// setup loads configuration, opens the database and wires the services
func setup(opts *rootOptions) (*env, error) {
	tenantID, err := uuid.Parse(opts.tenant)
	if err != nil {
		return nil, fmt.Errorf("invalid --tenant: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.New(&logger.Config{
		Level:      opts.logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel("warn")))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	customers := customerapp.NewCustomerService(customerRepo, log)
	leads := customerapp.NewLeadService(persistence.NewGormLeadRepository(db.DB), persistence.NewGormLeadHistoryRepository(db.DB), customerRepo, log)
	deals := salesapp.NewDealService(persistence.NewGormDealRepository(db.DB), customers, log)
	tickets := supportapp.NewTicketService(persistence.NewGormTicketRepository(db.DB), persistence.NewGormTicketResponseRepository(db.DB), log)
	rules := workflowapp.NewRuleService(
		persistence.NewGormWorkflowRuleRepository(db.DB),
		persistence.NewGormWorkflowActionRepository(db.DB),
		persistence.NewGormWorkflowLogRepository(db.DB),
		log,
	)

	return &env{
		cfg:      cfg,
		log:      log,
		db:       db,
		tenantID: tenantID,
		seeder:   seed.NewSeeder(customers, leads, deals, tickets, rules, log),
	}, nil
}

func printResult(w io.Writer, tenantID uuid.UUID, res seed.Result) {
	fmt.Fprintf(w, "tenant %s\n", tenantID)
	table := tablewriter.NewWriter(w)
	table.Header("Record", "Created")
	_ = table.Bulk(res.Rows())
	_ = table.Render()
}
