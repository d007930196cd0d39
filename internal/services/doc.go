// Package services contains the business logic layer between the HTTP
// transport and the data pipeline. Services own the loaded dataset,
// answer range queries, and report process health.
package services
