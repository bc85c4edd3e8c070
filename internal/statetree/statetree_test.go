package statetree

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

type StateTreeTestSuite struct {
	suite.Suite
}

func TestStateTreeSuite(t *testing.T) {
	suite.Run(t, new(StateTreeTestSuite))
}

func (suite *StateTreeTestSuite) TestParseValidJSON() {
	node, err := Parse([]byte(`{"config":{"version":"1.4.2"}}`))
	suite.NoError(err)
	suite.True(node.Exists())
	suite.True(node.IsObject())
}

func (suite *StateTreeTestSuite) TestParseInvalidJSON() {
	_, err := Parse([]byte(`{"config":`))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStateMalformed))
}

func (suite *StateTreeTestSuite) TestPathNavigation() {
	node, err := Parse([]byte(`{"data":[{"pricehistory":{"candles":[[1,2],[3,4]]}}]}`))
	suite.NoError(err)

	candles := node.Path("data", 0, "pricehistory", "candles")
	suite.True(candles.Exists())
	suite.True(candles.IsArray())
	suite.Equal(2, candles.Len())
}

func (suite *StateTreeTestSuite) TestPathMissingIsTotal() {
	node, err := Parse([]byte(`{"a":{"b":1}}`))
	suite.NoError(err)

	missing := node.Path("a", "c", "d", "e")
	suite.False(missing.Exists())
	suite.Equal(0, missing.Len())
	suite.Nil(missing.Items())

	_, ok := missing.Float()
	suite.False(ok)
}

func (suite *StateTreeTestSuite) TestFirstOf() {
	node, err := Parse([]byte(`{"state":{"app":{"version":"1.2.0"}},"other":1}`))
	suite.NoError(err)

	found := node.FirstOf(
		[]any{"config", "version"},
		[]any{"state", "app", "version"},
	)
	suite.True(found.Exists())

	v, ok := found.Str()
	suite.True(ok)
	suite.Equal("1.2.0", v)

	suite.False(node.FirstOf([]any{"a"}, []any{"b", 0}).Exists())
}

func (suite *StateTreeTestSuite) TestPathWrongTypeIsTotal() {
	node, err := Parse([]byte(`{"a":"scalar"}`))
	suite.NoError(err)

	suite.False(node.Path("a", "b").Exists())
	suite.False(node.Path("a", 0).Exists())
	suite.False(node.Index(5).Exists())
}

func (suite *StateTreeTestSuite) TestZeroNodeIsInert() {
	var node Node

	suite.False(node.Exists())
	suite.False(node.Key("x").Exists())
	suite.False(node.Index(0).Exists())
	suite.False(node.Block("QuoteBlock").Exists())
	suite.Nil(node.Keys())
}

func (suite *StateTreeTestSuite) TestIndexOutOfRange() {
	node, err := Parse([]byte(`[1,2,3]`))
	suite.NoError(err)

	suite.False(node.Index(-1).Exists())
	suite.False(node.Index(3).Exists())
	suite.True(node.Index(2).Exists())
}

func (suite *StateTreeTestSuite) TestStrAccessor() {
	node, err := Parse([]byte(`{"name":"Mercedes-Benz Group AG","price":62.4}`))
	suite.NoError(err)

	name, ok := node.Key("name").Str()
	suite.True(ok)
	suite.Equal("Mercedes-Benz Group AG", name)

	_, ok = node.Key("price").Str()
	suite.False(ok)
}

func (suite *StateTreeTestSuite) TestFloatAccessor() {
	node, err := Parse([]byte(`{"a":62.4,"b":"62.4","c":" 7 ","d":"x","e":true}`))
	suite.NoError(err)

	f, ok := node.Key("a").Float()
	suite.True(ok)
	suite.Equal(62.4, f)

	f, ok = node.Key("b").Float()
	suite.True(ok)
	suite.Equal(62.4, f)

	f, ok = node.Key("c").Float()
	suite.True(ok)
	suite.Equal(7.0, f)

	_, ok = node.Key("d").Float()
	suite.False(ok)

	_, ok = node.Key("e").Float()
	suite.False(ok)
}

func (suite *StateTreeTestSuite) TestIntAccessor() {
	node, err := Parse([]byte(`{"ts":1709280000000,"s":"42"}`))
	suite.NoError(err)

	ts, ok := node.Key("ts").Int()
	suite.True(ok)
	suite.Equal(int64(1709280000000), ts)

	s, ok := node.Key("s").Int()
	suite.True(ok)
	suite.Equal(int64(42), s)
}

func (suite *StateTreeTestSuite) TestBoolAccessor() {
	node, err := Parse([]byte(`{"open":true}`))
	suite.NoError(err)

	b, ok := node.Key("open").Bool()
	suite.True(ok)
	suite.True(b)
}

func (suite *StateTreeTestSuite) TestItemsOrder() {
	node, err := Parse([]byte(`[10,20,30]`))
	suite.NoError(err)

	items := node.Items()
	suite.Len(items, 3)
	first, _ := items[0].Float()
	last, _ := items[2].Float()
	suite.Equal(10.0, first)
	suite.Equal(30.0, last)
}

func (suite *StateTreeTestSuite) TestKeysSorted() {
	node, err := Parse([]byte(`{"zeta":1,"alpha":2,"mid":3}`))
	suite.NoError(err)

	suite.Equal([]string{"alpha", "mid", "zeta"}, node.Keys())
}

func (suite *StateTreeTestSuite) TestBlockWithEscapedJSON() {
	payload := `["ShallowReactive",{"x":1},"QuoteBlock","6a9c2e58-1b1f-4f7e-9d3a-000000000000","{\"price\":\"62,40\",\"quoteDateTime\":\"2024-03-01 17:35:02\"}"]`
	node, err := Parse([]byte(payload))
	suite.NoError(err)

	block := node.Block("QuoteBlock")
	suite.True(block.Exists())
	suite.True(block.IsObject())

	price, ok := block.Key("price").Str()
	suite.True(ok)
	suite.Equal("62,40", price)
}

func (suite *StateTreeTestSuite) TestBlockWithDirectObject() {
	payload := `["PriceHistoryBlock",{"candles":[[1709280000,10,11,9,10.5,1200]]}]`
	node, err := Parse([]byte(payload))
	suite.NoError(err)

	block := node.Block("PriceHistoryBlock")
	suite.True(block.Exists())
	suite.True(block.Key("candles").IsArray())
}

func (suite *StateTreeTestSuite) TestBlockAbsent() {
	node, err := Parse([]byte(`["SomethingElse","data"]`))
	suite.NoError(err)

	suite.False(node.Block("QuoteBlock").Exists())
}

func (suite *StateTreeTestSuite) TestBlockSkipsUndecodableNeighbors() {
	payload := `["QuoteBlock","not-json","also not json","{\"price\":62.4}"]`
	node, err := Parse([]byte(payload))
	suite.NoError(err)

	block := node.Block("QuoteBlock")
	suite.True(block.Exists())

	price, ok := block.Key("price").Float()
	suite.True(ok)
	suite.Equal(62.4, price)
}

func (suite *StateTreeTestSuite) TestBlockOnObjectPayload() {
	node, err := Parse([]byte(`{"not":"an array"}`))
	suite.NoError(err)

	suite.False(node.Block("QuoteBlock").Exists())
}
