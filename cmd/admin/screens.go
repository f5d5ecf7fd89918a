package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/admin"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/client"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/console"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/listing"
)

func newStatsCmd(a *app) *cobra.Command {
	var rangeFlag string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard totals and visitor traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			rangeKey, err := domain.ParseVisitorRange(rangeFlag)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			stats, err := c.Dashboard(cmd.Context())
			if err != nil {
				return a.handleAPIError(err)
			}
			rows := [][]string{
				{"Tourism destinations", strconv.Itoa(stats.TotalTourism)},
				{"Verified UMKM", strconv.Itoa(stats.ActiveUmkm)},
				{"UMKM awaiting review", strconv.Itoa(stats.PendingUmkm)},
				{"Published articles", strconv.Itoa(stats.PublishedArticles)},
				{"Total visitors", strconv.FormatInt(stats.TotalVisitors, 10)},
			}

			visitors, err := c.Visitors(cmd.Context(), rangeKey)
			var apiErr *client.APIError
			switch {
			case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable:
				rows = append(rows, []string{fmt.Sprintf("Page views (%s)", rangeKey), "unavailable"})
			case err != nil:
				return a.handleAPIError(err)
			default:
				rows = append(rows,
					[]string{fmt.Sprintf("Page views (%s)", rangeKey), strconv.FormatInt(visitors.PageViews, 10)},
					[]string{fmt.Sprintf("Unique visitors (%s)", rangeKey), strconv.FormatInt(visitors.UniqueVisitors, 10)},
				)
				for _, page := range visitors.TopPages {
					rows = append(rows, []string{"  " + page.URI, strconv.FormatInt(page.Views, 10)})
				}
			}
			console.RenderRows(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&rangeFlag, "range", "7d", "visitor window: 24h, 7d, 30d or all")
	return cmd
}

func newTourismCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tourism",
		Short: "Manage tourism destinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, a, "/admin/tourism", func(env screenEnv) error {
				names := env.categories(cmd, domain.CategoryTypeTourism)
				ctrl := listing.NewTourism(client.NewCollection[domain.TourismDestination](env.client, client.CollectionTourism), env.options)
				return console.NewScreen(env.term, console.ScreenConfig[domain.TourismDestination]{
					Title:      "Tourism destinations",
					Path:       "/admin/tourism",
					Controller: ctrl,
					Gate:       env.gate,
					Columns:    console.TourismColumns(names),
				}).Run(cmd.Context())
			})
		},
	}
}

func newUmkmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "umkm",
		Short: "Review and manage UMKM products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, a, "/admin/umkm", func(env screenEnv) error {
				names := env.categories(cmd, domain.CategoryTypeUmkm)
				ctrl := listing.NewUmkm(client.NewCollection[domain.UmkmProduct](env.client, client.CollectionUmkm), env.options)
				return console.NewScreen(env.term, console.ScreenConfig[domain.UmkmProduct]{
					Title:      "UMKM",
					Path:       "/admin/umkm",
					Controller: ctrl,
					Gate:       env.gate,
					Columns:    console.UmkmColumns(names),
					Verbs: map[string]string{
						"verify": string(domain.UmkmStatusVerified),
						"reject": string(domain.UmkmStatusRejected),
					},
				}).Run(cmd.Context())
			})
		},
	}
}

func newArticlesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "articles",
		Short: "Manage articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, a, "/admin/articles", func(env screenEnv) error {
				ctrl := listing.NewArticles(client.NewCollection[domain.Article](env.client, client.CollectionArticles), env.options)
				return console.NewScreen(env.term, console.ScreenConfig[domain.Article]{
					Title:      "Articles",
					Path:       "/admin/articles",
					Controller: ctrl,
					Gate:       env.gate,
					Columns:    console.ArticleColumns(),
					Verbs: map[string]string{
						"publish":   string(domain.ArticleStatusPublished),
						"unpublish": string(domain.ArticleStatusDraft),
					},
				}).Run(cmd.Context())
			})
		},
	}
}

type screenEnv struct {
	client  *client.Client
	term    *console.Terminal
	gate    *admin.Gate
	options listing.Options
	logger  *log.Logger
}

// categories resolves category names for the table. A failure only costs
// the names, so it is logged and the ids are shown instead.
func (e screenEnv) categories(cmd *cobra.Command, t domain.CategoryType) console.CategoryNames {
	cats, err := e.client.Categories(cmd.Context(), t)
	if err != nil {
		e.logger.Printf("load categories: %v", err)
		return console.CategoryNames{}
	}
	return console.NewCategoryNames(cats)
}

func runScreen(cmd *cobra.Command, a *app, path string, run func(screenEnv) error) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	term := console.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
	term.Navigate(path)
	logger := log.New(cmd.ErrOrStderr(), "desa-admin: ", 0)
	if !a.verbose {
		logger.SetOutput(io.Discard)
	}
	env := screenEnv{
		client: c,
		term:   term,
		gate:   admin.NewGate(c, term, admin.GateOptions{Logger: logger}),
		options: listing.Options{
			Confirmer: term,
			Notifier:  term,
			Logger:    logger,
		},
		logger: logger,
	}
	err = run(env)
	if errors.Is(err, console.ErrSignedOut) {
		a.forgetDroppedToken(cmd, c)
	}
	return err
}

// forgetDroppedToken removes the saved token once the client has dropped it,
// which happens when the API answers 401 or the token expires. A session that
// could not be checked keeps its token.
func (a *app) forgetDroppedToken(cmd *cobra.Command, c *client.Client) {
	if c.Token() != "" || a.v.GetString("token") == "" {
		return
	}
	if err := a.saveToken(""); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
}

// handleAPIError forgets a token the API no longer accepts.
func (a *app) handleAPIError(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		_ = a.saveToken("")
		return fmt.Errorf("%w: run desa-admin login", err)
	}
	return err
}
