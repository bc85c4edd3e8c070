package extractor

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

type ExtractorTestSuite struct {
	suite.Suite
}

func TestExtractorSuite(t *testing.T) {
	suite.Run(t, new(ExtractorTestSuite))
}

func (suite *ExtractorTestSuite) TestExtractNuxtDataScript() {
	doc := []byte(`<!DOCTYPE html>
<html>
<head><title>Mercedes-Benz Group AG</title></head>
<body>
<div id="app"></div>
<script id="__NUXT_DATA__" type="application/json">["ShallowReactive",{"instrument":1},"QuoteBlock","6a9c2e58-1b1f-4f7e-9d3a-000000000000","{\"price\":\"62,40\"}"]</script>
</body>
</html>`)

	tree, err := Extract(doc)
	suite.NoError(err)
	suite.True(tree.Exists())
	suite.True(tree.IsArray())

	price, ok := tree.Block("QuoteBlock").Key("price").Str()
	suite.True(ok)
	suite.Equal("62,40", price)
}

func (suite *ExtractorTestSuite) TestExtractLegacyWindowAssignment() {
	doc := []byte(`<html><body>
<script>window.__NUXT__={"state":{"instrument":{"isin":"DE0007100000"}},"config":{"version":"1.2.0"}};</script>
</body></html>`)

	tree, err := Extract(doc)
	suite.NoError(err)

	isin, ok := tree.Path("state", "instrument", "isin").Str()
	suite.True(ok)
	suite.Equal("DE0007100000", isin)
}

func (suite *ExtractorTestSuite) TestExtractAppStateScript() {
	doc := []byte(`<html><body>
<script type="application/json" data-app-state>{"candles":[[1709280000,10,11,9,10.5,1200]]}</script>
</body></html>`)

	tree, err := Extract(doc)
	suite.NoError(err)
	suite.True(tree.Key("candles").IsArray())
}

func (suite *ExtractorTestSuite) TestExtractPrefersNuxtDataOverLegacy() {
	doc := []byte(`<html><body>
<script>window.__NUXT__={"from":"legacy"};</script>
<script id="__NUXT_DATA__" type="application/json">{"from":"nuxt-data"}</script>
</body></html>`)

	tree, err := Extract(doc)
	suite.NoError(err)

	from, ok := tree.Key("from").Str()
	suite.True(ok)
	suite.Equal("nuxt-data", from)
}

func (suite *ExtractorTestSuite) TestExtractNoMarker() {
	doc := []byte(`<html><body><h1>Kursdaten</h1><script>console.log("analytics")</script></body></html>`)

	_, err := Extract(doc)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStateNotFound))
}

func (suite *ExtractorTestSuite) TestExtractEmptyDocument() {
	_, err := Extract([]byte(""))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStateNotFound))
}

func (suite *ExtractorTestSuite) TestExtractMalformedPayload() {
	doc := []byte(`<html><body>
<script id="__NUXT_DATA__" type="application/json">{"truncated":</script>
</body></html>`)

	_, err := Extract(doc)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStateMalformed))
}

func (suite *ExtractorTestSuite) TestExtractLegacyWithoutObjectLiteral() {
	doc := []byte(`<html><body>
<script>window.__NUXT__=undefined;</script>
</body></html>`)

	_, err := Extract(doc)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStateNotFound))
}

func (suite *ExtractorTestSuite) TestExtractToleratesBrokenMarkup() {
	// Unclosed tags around the state script must not break extraction.
	doc := []byte(`<html><body><div><span>Mercedes-Benz
<script id="__NUXT_DATA__" type="application/json">{"ok":true}</script>
<table><tr><td>62,40</body></html>`)

	tree, err := Extract(doc)
	suite.NoError(err)

	ok, found := tree.Key("ok").Bool()
	suite.True(found)
	suite.True(ok)
}

func (suite *ExtractorTestSuite) TestExtractRejectsNewerMajorVersion() {
	doc := []byte(`<html><body>
<script id="__NUXT_DATA__" type="application/json">{"config":{"version":"2.0.1"}}</script>
</body></html>`)

	_, err := Extract(doc)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStateVersionUnsupported))
}
