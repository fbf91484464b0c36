// Package main
//
// @title           Transaction Sandbox API
// @version         1.0
// @description     Development stand-in for the transaction service used by the payments dashboard.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description Type "Bearer {token}" to authenticate. Only enforced when JWT_SECRET is set.
package main
