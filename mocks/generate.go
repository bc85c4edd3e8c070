package mocks

//go:generate mockgen -destination=./mock_fetcher.go -package=mocks github.com/rxtech-lab/boerse-charts/pkg/boersedata Fetcher
//go:generate mockgen -destination=./mock_watchlist.go -package=mocks github.com/rxtech-lab/boerse-charts/internal/watchlist Repository
