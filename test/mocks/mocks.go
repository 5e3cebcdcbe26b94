// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/inventory_repository.go -destination=inventory_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/inventory_service.go -destination=inventory_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/transaction_repository.go -destination=transaction_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/transaction_service.go -destination=transaction_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/report_repository.go -destination=report_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/report_service.go -destination=report_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/import_job_repository.go -destination=import_job_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/adapters/storage/s3.go -destination=storage_client_mock.go -package=mocks StorageClient
