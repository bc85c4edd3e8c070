package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/rxtech-lab/boerse-charts/internal/types"
	"github.com/rxtech-lab/boerse-charts/internal/watchlist"
	"github.com/rxtech-lab/boerse-charts/mocks"
	"github.com/rxtech-lab/boerse-charts/pkg/boersedata"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

// stubFetcher serves canned payloads and errors per identifier and records
// every request it sees.
type stubFetcher struct {
	payloads map[string]types.ChartPayload
	errs     map[string]error
	requests []boersedata.ChartRequest
}

func (s *stubFetcher) Chart(_ context.Context, req boersedata.ChartRequest) (types.ChartPayload, error) {
	s.requests = append(s.requests, req)

	if err, ok := s.errs[req.Identifier]; ok {
		return s.payloads[req.Identifier], err
	}

	return s.payloads[req.Identifier], nil
}

type stubRecorder struct {
	saved []types.CandleSeries
}

func (s *stubRecorder) SaveSeries(series types.CandleSeries) error {
	s.saved = append(s.saved, series)

	return nil
}

type RefreshTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	repo *mocks.MockRepository
}

func (suite *RefreshTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.repo = mocks.NewMockRepository(suite.ctrl)
}

func (suite *RefreshTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *RefreshTestSuite) TestRefreshRecordsEverySeries() {
	entries := []watchlist.Entry{
		{Name: "SAP SE", Identifier: "DE0007164600"},
		{Name: "Siemens AG", Identifier: "DE0007236101"},
	}
	suite.repo.EXPECT().Load().Return(entries, nil)

	fetcher := &stubFetcher{payloads: map[string]types.ChartPayload{
		"DE0007164600": {Series: mocks.GenerateSeries("DE0007164600", 10)},
		"DE0007236101": {Series: mocks.GenerateSeries("DE0007236101", 10)},
	}}
	recorder := &stubRecorder{}

	result, err := refreshEntries(context.Background(), fetcher, suite.repo, recorder, types.RangeKeyDay, false)
	suite.Require().NoError(err)

	suite.Equal(2, result.Total)
	suite.Equal(2, result.Refreshed)
	suite.Empty(result.Failed)
	suite.Len(recorder.saved, 2)

	suite.Require().Len(fetcher.requests, 2)
	suite.Equal("DE0007164600", fetcher.requests[0].Identifier)
	suite.Equal("SAP SE", fetcher.requests[0].Name)
	suite.Equal(types.RangeKeyDay, fetcher.requests[0].Range)
}

func (suite *RefreshTestSuite) TestRefreshCollectsFailures() {
	entries := []watchlist.Entry{
		{Name: "SAP SE", Identifier: "DE0007164600"},
		{Name: "Broken AG", Identifier: "DE0000000001"},
	}
	suite.repo.EXPECT().Load().Return(entries, nil)

	fetcher := &stubFetcher{
		payloads: map[string]types.ChartPayload{
			"DE0007164600": {Series: mocks.GenerateSeries("DE0007164600", 10)},
		},
		errs: map[string]error{
			"DE0000000001": errors.New(errors.ErrCodeHTTPStatus, "unexpected status 503"),
		},
	}
	recorder := &stubRecorder{}

	result, err := refreshEntries(context.Background(), fetcher, suite.repo, recorder, types.RangeKeyDay, false)
	suite.Require().NoError(err, "a failing entry is collected, not fatal")

	suite.Equal(2, result.Total)
	suite.Equal(1, result.Refreshed)
	suite.Equal([]string{"DE0000000001"}, result.Failed)
	suite.Len(recorder.saved, 1)
	suite.Equal("DE0007164600", recorder.saved[0].Identifier)
}

func (suite *RefreshTestSuite) TestRefreshEmptyRangeCountsAsRefreshed() {
	entries := []watchlist.Entry{{Name: "SAP SE", Identifier: "DE0007164600"}}
	suite.repo.EXPECT().Load().Return(entries, nil)

	now := time.Now()
	fetcher := &stubFetcher{
		payloads: map[string]types.ChartPayload{
			"DE0007164600": {Series: types.CandleSeries{Identifier: "DE0007164600"}},
		},
		errs: map[string]error{
			"DE0007164600": errors.NewEmptyRangeError(now.Add(-24*time.Hour), now, "DE0007164600", "no candles"),
		},
	}
	recorder := &stubRecorder{}

	result, err := refreshEntries(context.Background(), fetcher, suite.repo, recorder, types.RangeKeyDay, false)
	suite.Require().NoError(err)

	suite.Equal(1, result.Refreshed)
	suite.Empty(result.Failed)
	suite.Empty(recorder.saved, "an empty series is nothing to record")
}

func (suite *RefreshTestSuite) TestRefreshEmptyWatchlist() {
	suite.repo.EXPECT().Load().Return(nil, nil)

	result, err := refreshEntries(context.Background(), &stubFetcher{}, suite.repo, &stubRecorder{}, types.RangeKeyDay, false)
	suite.Require().NoError(err)
	suite.Equal(0, result.Total)
}

func (suite *RefreshTestSuite) TestRefreshLoadError() {
	suite.repo.EXPECT().Load().Return(nil, errors.New(errors.ErrCodeWatchlistLoad, "corrupt user file"))

	_, err := refreshEntries(context.Background(), &stubFetcher{}, suite.repo, &stubRecorder{}, types.RangeKeyDay, false)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWatchlistLoad))
}

func (suite *RefreshTestSuite) TestRefreshHonorsCancelledContext() {
	entries := []watchlist.Entry{{Name: "SAP SE", Identifier: "DE0007164600"}}
	suite.repo.EXPECT().Load().Return(entries, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &stubFetcher{}

	result, err := refreshEntries(ctx, fetcher, suite.repo, &stubRecorder{}, types.RangeKeyDay, false)
	suite.ErrorIs(err, context.Canceled)
	suite.Equal(0, result.Refreshed)
	suite.Empty(fetcher.requests)
}

func TestRefreshSuite(t *testing.T) {
	suite.Run(t, new(RefreshTestSuite))
}
