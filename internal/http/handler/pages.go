package handler

import (
	"github.com/gofiber/fiber/v2"
)

// appShell is the single-page shell served for every page route. The
// browser app takes over routing from here and talks to the /v1 endpoints.
const appShell = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Nucleav</title>
  <link rel="stylesheet" href="/assets/app.css" />
</head>
<body>
  <div id="root"></div>
  <script src="/assets/app.js"></script>
</body>
</html>`

// PublicPages is the page surface reachable without a session.
var PublicPages = []string{"/", "/login", "/register"}

// GuardedPages is the fixed list of routes restricted to authenticated
// sessions; anything here redirects to /login otherwise.
var GuardedPages = []string{
	"/welcome",
	"/dashboard",
	"/profile",
	"/profile/edit",
	"/company",
	"/company/create",
	"/company/edit/:cif",
	"/company/:cif",
	"/empresa",
	"/material",
	"/red",
}

// Page serves the app shell.
func Page() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(appShell)
	}
}
