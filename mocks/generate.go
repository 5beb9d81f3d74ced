package mocks

//go:generate mockgen -destination=./mock_version_source.go -package=mocks github.com/rxtech-lab/shopware-version-gate/internal/gate VersionSource
