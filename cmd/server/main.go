package main

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"linknest/internal/db"
	"linknest/internal/handlers"
	"linknest/internal/middleware"
	"linknest/internal/router"
	"linknest/internal/services"
	"linknest/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	if err := utils.InitLogger(os.Getenv("LOG_PATH"), os.Getenv("LOG_LEVEL")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Logger.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=linknest port=5432 sslmode=disable TimeZone=UTC"
	}
	gdb, err := db.Open(dsn)
	if err != nil {
		utils.Sugar.Fatalw("database init failed", "err", err)
	}

	tokenSecret := os.Getenv("TOKEN_SECRET")
	if tokenSecret == "" {
		tokenSecret = "token_secret_change_me"
	}
	var tokenTTL time.Duration
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		tokenTTL, err = time.ParseDuration(raw)
		if err != nil {
			utils.Sugar.Fatalw("invalid TOKEN_TTL", "value", raw, "err", err)
		}
	}

	// Core services
	accounts := services.NewAccountService(gdb)
	sessionSvc := services.NewSessionService(tokenSecret, tokenTTL)
	content := services.NewContentService(gdb)
	submit := services.NewSubmitService(accounts, sessionSvc, content)

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("linknest_session", store))

	// Templates and static assets
	r.HTMLRender = loadTemplates("./web/templates")
	r.Static("/static", "./web/static")

	// Middleware
	r.Use(middleware.LoadUser(sessionSvc, accounts))

	// Handlers
	authHandler := handlers.NewAuthHandler(accounts, submit)
	storyHandler := handlers.NewStoryHandler(content, submit)
	router.RegisterRoutes(r, authHandler, storyHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.Sugar.Infow("linknest server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		utils.Sugar.Fatalw("server exited", "err", err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}
	components, err := filepath.Glob(templatesDir + "/components/*.html")
	if err != nil {
		panic(err)
	}

	// Each view is assembled with the shared layout and components.
	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(components)+1)
		files = append(files, layouts...)
		files = append(files, components...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"timeAgo": func(t time.Time) string {
			d := time.Since(t)
			switch {
			case d < time.Minute:
				return "just now"
			case d < time.Hour:
				return pluralize(int(d.Minutes()), "minute")
			case d < 24*time.Hour:
				return pluralize(int(d.Hours()), "hour")
			default:
				return pluralize(int(d.Hours()/24), "day")
			}
		},
		"add": func(a, b int) int {
			return a + b
		},
	}

	r.AddFromFilesFuncs("index.html", funcMap, assemble(templatesDir+"/views/index.html")...)
	r.AddFromFilesFuncs("auth/login.html", funcMap, assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFilesFuncs("auth/signup.html", funcMap, assemble(templatesDir+"/views/auth/signup.html")...)
	r.AddFromFilesFuncs("story/submit.html", funcMap, assemble(templatesDir+"/views/story/submit.html")...)
	r.AddFromFilesFuncs("story/detail.html", funcMap, assemble(templatesDir+"/views/story/detail.html")...)
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
