package main

import (
	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/marketplace-invoice-importer/client"
	"github.com/Aashish23092/marketplace-invoice-importer/config"
	"github.com/Aashish23092/marketplace-invoice-importer/handler"
	"github.com/Aashish23092/marketplace-invoice-importer/logger"
	"github.com/Aashish23092/marketplace-invoice-importer/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()
	log := logger.New(cfg.LogLevel)

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguages, log)
	defer tesseractClient.Close()

	var qrReader service.QRReader
	if cfg.EnableQR {
		qrReader = client.NewQRDecoder()
	}

	// Initialize service layer
	pdfProcessor := service.NewPDFProcessor()
	invoiceService := service.NewInvoiceService(pdfProcessor, tesseractClient, qrReader, service.InvoiceOptions{
		MinPDFTextChars:  cfg.MinPDFTextChars,
		BatchConcurrency: cfg.BatchConcurrency,
		MaxFeeItems:      cfg.MaxFeeItems,
	}, log)

	// Initialize handler layer
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, cfg.MaxFileSize)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(log))

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", invoiceHandler.Health)

	// API routes
	api := router.Group("/api/v1")
	{
		invoices := api.Group("/invoices")
		{
			invoices.POST("/extract", invoiceHandler.Extract)
			invoices.POST("/extract-text", invoiceHandler.ExtractText)
			invoices.POST("/export", invoiceHandler.Export)
		}
	}

	log.Info().Str("port", cfg.ServerPort).Msg("starting marketplace invoice importer")
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
