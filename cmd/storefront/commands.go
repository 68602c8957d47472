package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/vnshop/storefront/internal/app"
	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/gateway"
)

func commands(ctx context.Context) []cli.Command {
	run := func(fn func(c *cli.Context, ctx context.Context, a *app.App) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			return withApp(ctx, func(ctx context.Context, a *app.App) error {
				return fn(c, ctx, a)
			})
		}
	}

	return []cli.Command{
		{
			Name:  "login",
			Usage: "Log in with username and password",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "username, u", Usage: "account username"},
				cli.StringFlag{Name: "password, p", Usage: "account password"},
			},
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				info, err := a.Auth.Login(ctx, c.String("username"), c.String("password"))
				if err != nil {
					return err
				}
				fmt.Printf("logged in as %s %v, %d item(s) in cart\n", info.Username, []string(info.Role), a.Cart.Count())
				return nil
			}),
		},
		{
			Name:  "login-google",
			Usage: "Log in with a Google ID token",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "token, t", Usage: "Google ID token"},
			},
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				info, err := a.Auth.LoginWithGoogle(ctx, c.String("token"))
				if err != nil {
					return err
				}
				fmt.Printf("logged in as %s %v\n", info.Username, []string(info.Role))
				return nil
			}),
		},
		{
			Name:  "logout",
			Usage: "Log out and clear the local session",
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				msg, err := a.Auth.Logout(ctx)
				printMessage(msg, "logged out")
				return err
			}),
		},
		{
			Name:  "register",
			Usage: "Create an account",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "username, u"},
				cli.StringFlag{Name: "email, e"},
				cli.StringFlag{Name: "password, p"},
				cli.StringFlag{Name: "full-name"},
				cli.StringFlag{Name: "phone"},
			},
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				msg, err := a.Auth.Register(ctx, domain.Registration{
					Username: c.String("username"),
					Email:    c.String("email"),
					Password: c.String("password"),
					FullName: c.String("full-name"),
					Phone:    c.String("phone"),
				})
				if err != nil {
					return err
				}
				printMessage(msg, "registered, check your email for the confirmation code")
				return nil
			}),
		},
		{
			Name:  "confirm",
			Usage: "Confirm an email address",
			Flags: []cli.Flag{cli.StringFlag{Name: "code, c", Usage: "secret code from the confirmation email"}},
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				msg, err := a.Auth.ConfirmEmail(ctx, c.String("code"))
				if err != nil {
					return err
				}
				printMessage(msg, "email confirmed")
				return nil
			}),
		},
		{
			Name:  "whoami",
			Usage: "Show the current user's profile",
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				profile, err := a.Auth.CurrentUser(ctx)
				if err != nil {
					return err
				}
				return printJSON(profile)
			}),
		},
		{
			Name:      "navigate",
			Usage:     "Evaluate the navigation guard for a path",
			ArgsUsage: "<path>",
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				path := c.Args().First()
				if path == "" {
					return errors.New("path required")
				}
				decision := a.Guard.Evaluate(ctx, path)
				if decision.Location == "" {
					fmt.Println(decision.Outcome)
					return nil
				}
				fmt.Printf("%s %s\n", decision.Outcome, decision.Location)
				return nil
			}),
		},
		cartCommand(run),
		{
			Name:  "products",
			Usage: "List products",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "page", Value: 1},
				cli.IntFlag{Name: "size", Value: 12},
				cli.Int64Flag{Name: "category"},
				cli.StringFlag{Name: "keyword, k"},
			},
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				page, err := a.Gateway.Products.List(ctx, gateway.ProductQuery{
					Page:       c.Int("page"),
					Size:       c.Int("size"),
					CategoryID: c.Int64("category"),
					Keyword:    c.String("keyword"),
				})
				if err != nil {
					return err
				}
				return printJSON(page)
			}),
		},
		{
			Name:  "categories",
			Usage: "List categories",
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				categories, err := a.Gateway.Categories.List(ctx)
				if err != nil {
					return err
				}
				return printJSON(categories)
			}),
		},
		orderCommand(run),
		{
			Name:  "addresses",
			Usage: "List saved addresses",
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				addresses, err := a.Gateway.Addresses.List(ctx)
				if err != nil {
					return err
				}
				return printJSON(addresses)
			}),
		},
		{
			Name:  "provinces",
			Usage: "List provinces",
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				provinces, err := a.Locations.Provinces(ctx)
				if err != nil {
					return err
				}
				return printJSON(provinces)
			}),
		},
		{
			Name:  "districts",
			Usage: "List the districts of a province",
			Flags: []cli.Flag{cli.IntFlag{Name: "province, p", Usage: "province code"}},
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				districts, err := a.Locations.Districts(ctx, c.Int("province"))
				if err != nil {
					return err
				}
				return printJSON(districts)
			}),
		},
		{
			Name:  "wards",
			Usage: "List the wards of a district",
			Flags: []cli.Flag{cli.IntFlag{Name: "district, d", Usage: "district code"}},
			Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
				wards, err := a.Locations.Wards(ctx, c.Int("district"))
				if err != nil {
					return err
				}
				return printJSON(wards)
			}),
		},
		dashboardCommand(run),
	}
}

type runner func(fn func(c *cli.Context, ctx context.Context, a *app.App) error) cli.ActionFunc

func cartCommand(run runner) cli.Command {
	lineFlags := []cli.Flag{
		cli.Int64Flag{Name: "product, p", Usage: "product id"},
		cli.IntFlag{Name: "quantity, q", Value: 1},
	}
	return cli.Command{
		Name:  "cart",
		Usage: "Manage the cart",
		Subcommands: []cli.Command{
			{
				Name: "list",
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					items, err := a.Gateway.Cart.Items(ctx)
					if err != nil {
						return err
					}
					return printJSON(items)
				}),
			},
			{
				Name: "count",
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					fmt.Println(a.Cart.Count())
					return nil
				}),
			},
			{
				Name:  "add",
				Flags: lineFlags,
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					msg, err := a.Gateway.Cart.Add(ctx, c.Int64("product"), c.Int("quantity"))
					if err != nil {
						return err
					}
					a.Cart.UpdateCartCount(ctx)
					printMessage(msg, "added to cart")
					return nil
				}),
			},
			{
				Name:  "update",
				Flags: lineFlags,
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					msg, err := a.Gateway.Cart.Update(ctx, c.Int64("product"), c.Int("quantity"))
					if err != nil {
						return err
					}
					a.Cart.UpdateCartCount(ctx)
					printMessage(msg, "cart updated")
					return nil
				}),
			},
			{
				Name:  "remove",
				Flags: lineFlags[:1],
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					msg, err := a.Gateway.Cart.Remove(ctx, c.Int64("product"))
					if err != nil {
						return err
					}
					a.Cart.UpdateCartCount(ctx)
					printMessage(msg, "removed from cart")
					return nil
				}),
			},
			{
				Name: "clear",
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					msg, err := a.Gateway.Cart.Clear(ctx)
					if err != nil {
						return err
					}
					a.Cart.UpdateCartCount(ctx)
					printMessage(msg, "cart cleared")
					return nil
				}),
			},
		},
	}
}

func orderCommand(run runner) cli.Command {
	idFlag := cli.Int64Flag{Name: "id", Usage: "order id"}
	return cli.Command{
		Name:  "orders",
		Usage: "Inspect and manage orders",
		Subcommands: []cli.Command{
			{
				Name: "list",
				Flags: []cli.Flag{
					cli.IntFlag{Name: "page", Value: 1},
					cli.IntFlag{Name: "size", Value: 10},
				},
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					page, err := a.Gateway.Orders.ListMine(ctx, c.Int("page"), c.Int("size"))
					if err != nil {
						return err
					}
					return printJSON(page)
				}),
			},
			{
				Name:  "show",
				Flags: []cli.Flag{idFlag},
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					order, err := a.Gateway.Orders.Get(ctx, c.Int64("id"))
					if err != nil {
						return err
					}
					return printJSON(order)
				}),
			},
			{
				Name:  "cancel",
				Flags: []cli.Flag{idFlag},
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					msg, err := a.Gateway.Orders.Cancel(ctx, c.Int64("id"))
					if err != nil {
						return err
					}
					printMessage(msg, "order cancelled")
					return nil
				}),
			},
			{
				Name: "status",
				Flags: []cli.Flag{
					idFlag,
					cli.StringFlag{Name: "status, s", Usage: "PENDING, CONFIRMED, SHIPPING, COMPLETED or CANCELLED"},
				},
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					msg, err := a.Gateway.Orders.UpdateStatus(ctx, c.Int64("id"), domain.OrderStatus(c.String("status")))
					if err != nil {
						return err
					}
					printMessage(msg, "order status updated")
					return nil
				}),
			},
		},
	}
}

func dashboardCommand(run runner) cli.Command {
	limitFlag := cli.IntFlag{Name: "limit, l", Value: 5}
	return cli.Command{
		Name:  "dashboard",
		Usage: "Admin reports",
		Subcommands: []cli.Command{
			{
				Name: "stats",
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					stats, err := a.Gateway.Dashboard.Stats(ctx)
					if err != nil {
						return err
					}
					return printJSON(stats)
				}),
			},
			{
				Name: "revenue",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "period", Value: "year"},
					cli.IntFlag{Name: "year"},
					cli.IntFlag{Name: "month"},
				},
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					series, err := a.Gateway.Dashboard.Revenue(ctx, c.String("period"), c.Int("year"), c.Int("month"))
					if err != nil {
						return err
					}
					return printJSON(series)
				}),
			},
			{
				Name:  "recent",
				Flags: []cli.Flag{limitFlag},
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					orders, err := a.Gateway.Dashboard.RecentOrders(ctx, c.Int("limit"))
					if err != nil {
						return err
					}
					return printJSON(orders)
				}),
			},
			{
				Name:  "top",
				Flags: []cli.Flag{limitFlag},
				Action: run(func(c *cli.Context, ctx context.Context, a *app.App) error {
					products, err := a.Gateway.Dashboard.TopProducts(ctx, c.Int("limit"))
					if err != nil {
						return err
					}
					return printJSON(products)
				}),
			},
		},
	}
}
