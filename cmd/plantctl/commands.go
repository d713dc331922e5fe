package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/plant-storefront/internal/catalog"
	"github.com/aaravmahajanofficial/plant-storefront/internal/client"
	"github.com/aaravmahajanofficial/plant-storefront/internal/currency"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"github.com/aaravmahajanofficial/plant-storefront/internal/productform"
	"github.com/aaravmahajanofficial/plant-storefront/internal/rates"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "plantctl",
		Usage: "Manage the plant storefront catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "storefront base URL",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("PLANT_API_URL"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "admin bearer token",
				Sources: cli.EnvVars("PLANT_API_TOKEN"),
			},
		},
		Commands: []*cli.Command{
			productCommand(),
			catalogCommand(),
			rateCommand(),
			tokenCommand(),
		},
	}
}

func apiClient(cmd *cli.Command) *client.Client {
	return client.New(cmd.String("server"), cmd.String("token"))
}

func out(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

// serverRate asks the storefront for its rate so the CLI converts with the
// same number the shop displays.
type serverRate struct {
	api *client.Client
}

func (s serverRate) FetchRate(ctx context.Context) float64 {
	rate, err := s.api.ExchangeRate(ctx)
	if err != nil || rate.Rate <= 0 {
		return rates.FallbackRate
	}

	return rate.Rate
}

func productCommand() *cli.Command {
	return &cli.Command{
		Name:  "product",
		Usage: "Create and remove products",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Add a product through the form flow",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "scientific-name"},
					&cli.StringFlag{Name: "price", Required: true, Usage: "price in --currency"},
					&cli.StringFlag{Name: "original-price"},
					&cli.StringFlag{Name: "currency", Value: string(currency.USD), Usage: "entry currency, USD or PHP"},
					&cli.StringFlag{Name: "category", Required: true},
					&cli.StringFlag{Name: "care-level", Value: string(models.DefaultCareLevel)},
					&cli.StringFlag{Name: "light", Value: string(models.DefaultLightRequirement)},
					&cli.StringFlag{Name: "water", Value: string(models.DefaultWaterFrequency)},
					&cli.StringFlag{Name: "size", Value: string(models.DefaultSize)},
					&cli.StringFlag{Name: "description", Required: true},
					&cli.StringFlag{Name: "stock", Required: true},
					&cli.StringFlag{Name: "image", Usage: "local image file to upload"},
					&cli.StringFlag{Name: "image-url", Usage: "image URL, ignored when --image is set"},
					&cli.BoolFlag{Name: "popular"},
					&cli.BoolFlag{Name: "on-sale"},
					&cli.StringFlag{Name: "humidity"},
					&cli.StringFlag{Name: "temperature"},
					&cli.StringFlag{Name: "fertilizer"},
					&cli.StringFlag{Name: "repotting"},
					&cli.StringFlag{Name: "toxicity"},
					&cli.StringFlag{Name: "growth-rate"},
					&cli.StringFlag{Name: "blooming-season"},
					&cli.StringFlag{Name: "notes"},
				},
				Action: createProduct,
			},
			{
				Name:  "delete",
				Usage: "Remove a product by id",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := strconv.ParseInt(cmd.String("id"), 10, 64)
					if err != nil {
						return fmt.Errorf("invalid id %q", cmd.String("id"))
					}

					deleted, err := apiClient(cmd).DeleteProduct(ctx, id)
					if err != nil {
						return err
					}

					fmt.Fprintf(out(cmd), "Deleted %d %s\n", deleted.ID, deleted.Name)
					return nil
				},
			},
		},
	}
}

func createProduct(ctx context.Context, cmd *cli.Command) error {

	mode, ok := currency.Parse(cmd.String("currency"))
	if !ok {
		return fmt.Errorf("unsupported currency %q", cmd.String("currency"))
	}

	api := apiClient(cmd)
	form := productform.New(ctx, serverRate{api: api}, api, api)

	if err := form.SetCurrency(mode); err != nil {
		return err
	}

	form.Edit(func(f *productform.Fields) {
		f.Name = cmd.String("name")
		f.ScientificName = cmd.String("scientific-name")
		f.Price = cmd.String("price")
		f.OriginalPrice = cmd.String("original-price")
		f.Category = models.Category(cmd.String("category"))
		f.CareLevel = models.CareLevel(cmd.String("care-level"))
		f.LightRequirement = models.LightRequirement(cmd.String("light"))
		f.WaterFrequency = models.WaterFrequency(cmd.String("water"))
		f.Size = models.Size(cmd.String("size"))
		f.Description = cmd.String("description")
		f.StockQuantity = cmd.String("stock")
		f.ImageURL = cmd.String("image-url")
		f.IsPopular = cmd.Bool("popular")
		f.IsOnSale = cmd.Bool("on-sale")
		f.Extras = catalog.CareExtras{
			Humidity:       cmd.String("humidity"),
			Temperature:    cmd.String("temperature"),
			Fertilizer:     cmd.String("fertilizer"),
			Repotting:      cmd.String("repotting"),
			Toxicity:       cmd.String("toxicity"),
			GrowthRate:     cmd.String("growth-rate"),
			BloomingSeason: cmd.String("blooming-season"),
			SpecialNotes:   cmd.String("notes"),
		}
	})

	if path := cmd.String("image"); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening image: %w", err)
		}
		defer file.Close()

		form.SelectImage(productform.ImageFile{Name: filepath.Base(path), Data: file})
	}

	product, err := form.Submit(ctx)
	if err != nil {
		var verr *productform.ValidationError
		if errors.As(err, &verr) {
			w := out(cmd)
			keys := make([]string, 0, len(verr.Fields))
			for k := range verr.Fields {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "  %s: %s\n", k, verr.Fields[k])
			}
		}
		return err
	}

	fmt.Fprintf(out(cmd), "Created product %d: %s (%s)\n", product.ID, product.Name, currency.FormatMoney(product.Price, currency.USD))
	return nil
}

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Browse the shop catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Filter and sort the catalog",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "category"},
					&cli.StringSliceFlag{Name: "care-level"},
					&cli.StringSliceFlag{Name: "light"},
					&cli.StringSliceFlag{Name: "size"},
					&cli.StringFlag{Name: "min-price"},
					&cli.StringFlag{Name: "max-price"},
					&cli.BoolFlag{Name: "in-stock"},
					&cli.BoolFlag{Name: "on-sale"},
					&cli.StringFlag{Name: "sort", Usage: "name, price, rating or popularity"},
					&cli.StringFlag{Name: "order", Value: "asc"},
					&cli.StringFlag{Name: "currency", Value: string(currency.USD), Usage: "display currency"},
				},
				Action: listCatalog,
			},
		},
	}
}

func catalogQuery(cmd *cli.Command) url.Values {
	q := url.Values{}

	for flag, param := range map[string]string{
		"category":   "category",
		"care-level": "careLevel",
		"light":      "lightRequirement",
		"size":       "size",
	} {
		for _, v := range cmd.StringSlice(flag) {
			q.Add(param, v)
		}
	}

	if v := cmd.String("min-price"); v != "" {
		q.Set("minPrice", v)
	}
	if v := cmd.String("max-price"); v != "" {
		q.Set("maxPrice", v)
	}
	if cmd.Bool("in-stock") {
		q.Set("inStock", "true")
	}
	if cmd.Bool("on-sale") {
		q.Set("onSale", "true")
	}
	if v := cmd.String("sort"); v != "" {
		q.Set("sortBy", v)
		q.Set("order", cmd.String("order"))
	}

	return q
}

func listCatalog(ctx context.Context, cmd *cli.Command) error {

	display, ok := currency.Parse(cmd.String("currency"))
	if !ok {
		return fmt.Errorf("unsupported currency %q", cmd.String("currency"))
	}

	api := apiClient(cmd)

	products, err := api.Catalog(ctx, catalogQuery(cmd))
	if err != nil {
		return err
	}

	rate := 1.0
	if display != currency.Canonical {
		rate = serverRate{api: api}.FetchRate(ctx)
	}

	w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		price := currency.Convert(p.Price, currency.Canonical, display, rate)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, currency.FormatMoney(price, display), p.StockQuantity)
	}

	return w.Flush()
}

func rateCommand() *cli.Command {
	return &cli.Command{
		Name:  "rate",
		Usage: "Show the USD to PHP rate the storefront is using",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rate, err := apiClient(cmd).ExchangeRate(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out(cmd), "1 %s = %s\n", rate.Base, currency.FormatMoney(rate.Rate, currency.PHP))
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a development token signed with the server key",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Required: true, Sources: cli.EnvVars("JWT_KEY")},
			&cli.StringFlag{Name: "user", Value: "dev-admin"},
			&cli.StringFlag{Name: "email", Value: "admin@localhost"},
			&cli.StringFlag{Name: "role", Value: string(models.RoleAdmin)},
			&cli.StringFlag{Name: "ttl", Value: "24h"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ttl, err := time.ParseDuration(cmd.String("ttl"))
			if err != nil {
				return fmt.Errorf("invalid ttl: %w", err)
			}

			tok, err := middleware.SignToken([]byte(cmd.String("key")), cmd.String("user"), cmd.String("email"), models.Role(cmd.String("role")), ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(out(cmd), tok)
			return nil
		},
	}
}
