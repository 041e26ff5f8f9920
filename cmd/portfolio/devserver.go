package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"

	"github.com/sebas2906/portfolio/internal/logger"
)

var (
	devAddr   string
	devStrict bool
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run a local stub of the chat API",
	Long: `Serve a stand-in for the chat API and its token endpoint:

  POST /chat    {"query", "verification-token", "id"?} -> {"answer", "threadId"}
  GET  /token   ?sitekey=...&action=...                -> {"token"}

Point the page at it with --endpoint http://localhost:3001/chat, and set
PORTFOLIO_TOKEN_URL=http://localhost:3001/token to exercise the token flow.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Verbose)
		defer log.Sync()

		app := newDevServer(log, devStrict)
		go func() {
			<-cmd.Context().Done()
			_ = app.Shutdown()
		}()

		log.Info("devserver", "listening", map[string]interface{}{"addr": devAddr, "strict": devStrict})
		return app.Listen(devAddr)
	},
}

func init() {
	devserverCmd.Flags().StringVar(&devAddr, "addr", ":3001", "Listen address")
	devserverCmd.Flags().BoolVar(&devStrict, "strict", false, "Only accept tokens issued by /token")
	rootCmd.AddCommand(devserverCmd)
}

// tokenTTL bounds how long an issued token stays valid.
const tokenTTL = 2 * time.Minute

type devChatRequest struct {
	Query string `json:"query" validate:"required"`
	Token string `json:"verification-token" validate:"required"`
	ID    string `json:"id"`
}

type devServer struct {
	log    logger.Logger
	strict bool

	tokens  *cache.Cache // token -> unused
	threads *cache.Cache // thread id -> turn count
	valid   *validator.Validate
}

var errTokenUsed = errors.New("verification token already used")

func newDevServer(log logger.Logger, strict bool) *fiber.App {
	s := &devServer{
		log:     log,
		strict:  strict,
		tokens:  cache.New(tokenTTL, 2*tokenTTL),
		threads: cache.New(cache.NoExpiration, 0),
		valid:   validator.New(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "portfolio devserver",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Post("/chat", s.chat)
	app.Get("/token", s.token)
	return app
}

func (s *devServer) token(c *fiber.Ctx) error {
	if c.Query("sitekey") == "" || c.Query("action") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "sitekey and action are required"})
	}
	tok := uuid.NewString()
	s.tokens.Set(tok, true, cache.DefaultExpiration)
	return c.JSON(fiber.Map{"token": tok})
}

func (s *devServer) chat(c *fiber.Ctx) error {
	var req devChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	if err := s.valid.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := s.verify(req.Token); err != nil {
		s.log.Warn("devserver", "rejected token", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	}

	thread := req.ID
	if thread == "" {
		thread = uuid.NewString()
	}
	_ = s.threads.Add(thread, 0, cache.NoExpiration)
	turn, err := s.threads.IncrementInt(thread, 1)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	s.log.Info("devserver", "chat", map[string]interface{}{
		"thread_id": thread,
		"turn":      turn,
	})
	return c.JSON(fiber.Map{
		"answer":   fmt.Sprintf("You said %q. That is message %d in this conversation.", req.Query, turn),
		"threadId": thread,
	})
}

// verify consumes a token issued by /token. Other tokens pass unless the
// server is strict.
func (s *devServer) verify(token string) error {
	v, found := s.tokens.Get(token)
	if !found {
		if s.strict {
			return errors.New("unknown verification token")
		}
		return nil
	}
	if unused, _ := v.(bool); !unused {
		return errTokenUsed
	}
	s.tokens.Set(token, false, cache.DefaultExpiration)
	return nil
}
