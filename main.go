package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"expert-hand/auth"
	"expert-hand/config"
	"expert-hand/llm"
	"expert-hand/models"
	"expert-hand/services"
	"expert-hand/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Ohne Übersetzung käme ein Unique-Constraint-Verstoß als
		// Treiberfehler an und der Duplikat-Pfad im Store griffe nie
		TranslateError: true,
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.User{}, &models.InnovationArea{}, &models.Expert{}, &models.ExpertArea{})

	// Setup Services
	st := store.New(db)
	llmClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logging)
	matching := services.NewMatchingService(st, llmClient, logging, cfg.MinExpertsPerArea)
	assistant := services.NewAssistantService(llmClient, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Innovation Ecosystem API"})
	})
	setupAuthRoutes(router, st, cfg, logging)
	setupMatchingRoutes(router, matching, logging)
	setupChatRoutes(router, assistant, logging)
	setupDirectoryRoutes(router, st, logging)

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// LLM-Aufrufe sind mehrsekündig und blockierend, daher großzügig
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupAuthRoutes(router *gin.Engine, st *store.Store, cfg *config.Config, log *zap.Logger) {
	router.POST("/register", func(c *gin.Context) {
		var req struct {
			Username      string `json:"username" binding:"required"`
			Password      string `json:"password" binding:"required"`
			Email         string `json:"email"`
			Company       string `json:"company"`
			Role          string `json:"role"`
			CompanySector string `json:"company_sector"`
			Problem       string `json:"problem"`
			Profile       string `json:"profile"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Error("Password hashing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		user := models.User{
			Username:      req.Username,
			PasswordHash:  hash,
			Email:         req.Email,
			Company:       req.Company,
			Role:          req.Role,
			CompanySector: req.CompanySector,
			Problem:       req.Problem,
			Profile:       req.Profile,
		}
		if err := st.CreateUser(&user); err != nil {
			if errors.Is(err, store.ErrDuplicateUsername) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username already registered"})
				return
			}
			log.Error("Failed to create user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User created successfully"})
	})

	// Form-encoded wie OAuth2 Password Flow
	router.POST("/token", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		user, err := st.UserByUsername(username)
		if err != nil {
			log.Error("User lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := auth.CreateAccessToken(user.Username, cfg.JWTSecret, cfg.TokenTTL())
		if err != nil {
			log.Error("Token creation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
	})

	router.GET("/me", auth.RequireUser(st, cfg.JWTSecret), func(c *gin.Context) {
		user := c.MustGet(auth.ContextUserKey).(*models.User)
		c.JSON(http.StatusOK, gin.H{
			"user_id":        user.ID,
			"username":       user.Username,
			"email":          user.Email,
			"company":        user.Company,
			"role":           user.Role,
			"company_sector": user.CompanySector,
			"profile":        user.Profile,
		})
	})
}

func setupMatchingRoutes(router *gin.Engine, matching *services.MatchingService, log *zap.Logger) {
	// clue/motivation/confidence werden hier nur validiert; konsumiert
	// werden sie erst vom Chat-Endpoint über start_data
	router.GET("/init", func(c *gin.Context) {
		role := c.Query("role")
		problem := c.Query("problem")
		if role == "" || problem == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role and problem are required"})
			return
		}
		for _, key := range []string{"clue", "motivation", "confidence"} {
			if v := c.Query(key); v != "" {
				if _, err := strconv.Atoi(v); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
					return
				}
			}
		}

		matches, err := matching.RankAreas(c.Request.Context(), role, problem)
		if err != nil {
			respondAIError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, matches)
	})
}

func setupChatRoutes(router *gin.Engine, assistant *services.AssistantService, log *zap.Logger) {
	router.POST("/message", func(c *gin.Context) {
		var req struct {
			LastMessages []llm.Message      `json:"last_messages"`
			StartData    services.StartData `json:"start_data"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		reply, err := assistant.Continue(c.Request.Context(), req.LastMessages, req.StartData)
		if err != nil {
			respondAIError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"response": reply})
	})

	router.POST("/info_person", func(c *gin.Context) {
		// Pointer, damit "required" ein fehlendes person-Objekt erkennt;
		// auf dem Struct-Wert greift die Validierung nicht
		var req struct {
			Person       *services.Contact `json:"person" binding:"required"`
			LastMessages []llm.Message     `json:"last_messages"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Person == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'person' field is required."})
			return
		}

		reply, err := assistant.ExplainContact(c.Request.Context(), *req.Person, req.LastMessages)
		if err != nil {
			respondAIError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"response": reply})
	})
}

func setupDirectoryRoutes(router *gin.Engine, st *store.Store, log *zap.Logger) {
	router.GET("/areas", func(c *gin.Context) {
		areas, err := st.ListAreas()
		if err != nil {
			log.Error("Database query for areas failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, areas)
	})
	router.GET("/experts", func(c *gin.Context) {
		experts, err := st.ListExperts()
		if err != nil {
			log.Error("Database query for experts failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, experts)
	})
}

// respondAIError bildet die Fehlerarten der LLM-Pipelines auf HTTP ab:
// unbrauchbare Modellantworten als 400 mit unterscheidbarer Meldung,
// alles andere (Netzwerk, Store) als generischer 500.
func respondAIError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model returned an empty response"})
	case errors.Is(err, llm.ErrMalformedResponse):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model response was not valid JSON"})
	case errors.Is(err, llm.ErrUnexpectedShape):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model response had an unexpected shape"})
	default:
		log.Error("AI pipeline failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Service Error"})
	}
}
