// Package main runs the CultureMap HTTP API.
//
// @title CultureMap API
// @version 1.0
// @description Cultural site discovery for Chemnitz: sites, favorites, comments and geolocation-gated footprint collection.
//
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
//
// @tag.name Footprints
// @tag.description Collecting sites by standing within 400 meters of them
//
// @tag.name Admin
// @tag.description User and comment moderation, admin role required
package main
