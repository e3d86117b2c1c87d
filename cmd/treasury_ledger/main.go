package main

// @title Treasury Ledger API
// @version 1.0
// @description Treasury, invoicing, installment and equity ledger for a small trading business.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	Execute()
}
