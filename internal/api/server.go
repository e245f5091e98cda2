package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-api/docs"
	v1 "github.com/campuslink/campuslink-api/internal/api/handler/v1"
	"github.com/campuslink/campuslink-api/internal/api/middleware"
	"github.com/campuslink/campuslink-api/internal/config"
	"github.com/campuslink/campuslink-api/internal/repository"
	"github.com/campuslink/campuslink-api/internal/repository/dao"
	"github.com/campuslink/campuslink-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	pointsHandler := s.initPointsHandler(db)
	poolHandler := s.initPoolHandler(db)
	engagementHandler := s.initEngagementHandler(db)
	storeHandler := s.initStoreHandler(db)
	s.MountHandlers(authHandler, userHandler, pointsHandler, poolHandler, engagementHandler, storeHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	poolRepo := repository.NewPoolRepository(dao.NewPoolDAO(db, dao.NewLedgerDAO(db)))
	svc := service.NewAuthService(repo, poolRepo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	return service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
}

func (s *Server) initPointsHandler(db *gorm.DB) *v1.PointsHandler {
	ledgerDAO := dao.NewLedgerDAO(db)
	repo := repository.NewLedgerRepository(ledgerDAO)
	storeRepo := repository.NewStoreRepository(dao.NewStoreDAO(db, ledgerDAO))
	svc := service.NewLedgerService(repo, storeRepo)
	handler := v1.NewPointsHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initPoolHandler(db *gorm.DB) *v1.PoolHandler {
	poolDAO := dao.NewPoolDAO(db, dao.NewLedgerDAO(db))
	repo := repository.NewPoolRepository(poolDAO)
	svc := service.NewPoolService(repo)
	handler := v1.NewPoolHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initEngagementHandler(db *gorm.DB) *v1.EngagementHandler {
	engagementDAO := dao.NewEngagementDAO(db, dao.NewLedgerDAO(db))
	repo := repository.NewEngagementRepository(engagementDAO)
	svc := service.NewEngagementService(repo)
	handler := v1.NewEngagementHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initStoreHandler(db *gorm.DB) *v1.StoreHandler {
	storeDAO := dao.NewStoreDAO(db, dao.NewLedgerDAO(db))
	repo := repository.NewStoreRepository(storeDAO)
	svc := service.NewStoreService(repo)
	handler := v1.NewStoreHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	pointsHandler *v1.PointsHandler,
	poolHandler *v1.PoolHandler,
	engagementHandler *v1.EngagementHandler,
	storeHandler *v1.StoreHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authorized := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authorized.GET("/users/:userID", userHandler.HandleGetUser)
		authorized.POST("/colleges", userHandler.HandleCreateCollege)
		authorized.GET("/colleges/:collegeID", userHandler.HandleGetCollege)

		authorized.GET("/points/balance", pointsHandler.HandleGetBalance)
		authorized.GET("/points/transactions", pointsHandler.HandleGetHistory)
		authorized.GET("/points/reconcile", pointsHandler.HandleReconcile)

		authorized.GET("/pool", poolHandler.HandleGetPool)
		authorized.POST("/pool/credit", poolHandler.HandleCreditPool)
		authorized.POST("/pool/debit", poolHandler.HandleDebitPool)
		authorized.POST("/pool/rewards", poolHandler.HandleGiveReward)
		authorized.GET("/pool/transactions", poolHandler.HandleGetPoolTransactions)
		authorized.GET("/pool/analytics", poolHandler.HandleGetPoolAnalytics)

		authorized.POST("/posts", engagementHandler.HandleCreatePost)
		authorized.GET("/posts/:postID", engagementHandler.HandleGetPost)
		authorized.POST("/posts/:postID/ignite", engagementHandler.HandleToggleIgnite)

		authorized.POST("/products", storeHandler.HandleCreateProduct)
		authorized.GET("/products", storeHandler.HandleListProducts)
		authorized.GET("/products/:productID", storeHandler.HandleGetProduct)
		authorized.PUT("/products/:productID", storeHandler.HandleUpdateProduct)

		authorized.GET("/cart", storeHandler.HandleGetCart)
		authorized.DELETE("/cart", storeHandler.HandleClearCart)
		authorized.POST("/cart/items", storeHandler.HandleAddCartItem)
		authorized.PUT("/cart/items/:itemID", storeHandler.HandleUpdateCartItem)
		authorized.DELETE("/cart/items/:itemID", storeHandler.HandleRemoveCartItem)

		authorized.POST("/orders/checkout", storeHandler.HandleCheckout)
		authorized.GET("/orders", storeHandler.HandleListOrders)
		authorized.GET("/orders/:orderID", storeHandler.HandleGetOrder)
		authorized.POST("/orders/:orderID/cancel", storeHandler.HandleCancelOrder)
		authorized.PUT("/orders/:orderID/status", storeHandler.HandleUpdateOrderStatus)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "CampusLink Points API"
	docs.SwaggerInfo.Description = "Campus community points economy: balances, reward pool, ignites and the points store."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
