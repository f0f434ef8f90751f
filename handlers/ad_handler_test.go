package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"openhouse/auth"
	"openhouse/database"
	"openhouse/models"
)

func initTestDeps() {
	Init(Deps{Tokens: auth.NewTokenService("test-secret"), Logger: zerolog.Nop()})
}

func TestUpdateAdForbiddenForNonOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("caller who is not the owner gets refused", func(mt *mtest.T) {
		initTestDeps()
		database.Ads = mt.Coll

		adID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "openhouse.ads", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: adID},
			{Key: "postedBy", Value: primitive.NewObjectID()},
			{Key: "title", Value: "Cosy family home"},
		}))

		c, w := testContext(testRequest(http.MethodPut, "/api/ad/"+adID.Hex(), validAdRequest()))
		c.Params = gin.Params{{Key: "id", Value: adID.Hex()}}
		c.Set("userId", primitive.NewObjectID().Hex())

		UpdateAd(c)

		assert.Equal(mt, http.StatusForbidden, w.Code)
		assert.Contains(mt, w.Body.String(), "Permission denied.")
	})
}

func TestDeleteAdForbiddenForNonOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("caller who is not the owner gets refused", func(mt *mtest.T) {
		initTestDeps()
		database.Ads = mt.Coll

		adID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "openhouse.ads", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: adID},
			{Key: "postedBy", Value: primitive.NewObjectID()},
		}))

		c, w := testContext(testRequest(http.MethodDelete, "/api/ad/"+adID.Hex(), nil))
		c.Params = gin.Params{{Key: "id", Value: adID.Hex()}}
		c.Set("userId", primitive.NewObjectID().Hex())

		DeleteAd(c)

		assert.Equal(mt, http.StatusForbidden, w.Code)
		assert.Contains(mt, w.Body.String(), "Permission denied.")
	})
}

func TestAdsFeedsAreCappedAndNewestFirst(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("both feeds query a dozen newest without geodata", func(mt *mtest.T) {
		initTestDeps()
		database.Ads = mt.Coll

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "openhouse.ads", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "action", Value: models.ActionSell},
				{Key: "title", Value: "Cosy family home"},
			}),
			mtest.CreateCursorResponse(0, "openhouse.ads", mtest.FirstBatch),
		)

		c, w := testContext(testRequest(http.MethodGet, "/api/ads", nil))
		Ads(c)
		require.Equal(mt, http.StatusOK, w.Code)

		for _, action := range []string{models.ActionSell, models.ActionRent} {
			evt := mt.GetStartedEvent()
			require.NotNil(mt, evt)
			require.Equal(mt, "find", evt.CommandName)

			filter, _ := evt.Command.Lookup("filter", "action").StringValueOK()
			assert.Equal(mt, action, filter)

			limit, _ := evt.Command.Lookup("limit").AsInt64OK()
			assert.EqualValues(mt, adsPageSize, limit)

			sort, _ := evt.Command.Lookup("sort", "createdAt").AsInt64OK()
			assert.EqualValues(mt, -1, sort)

			for _, field := range []string{"googleMap", "location"} {
				excluded, _ := evt.Command.Lookup("projection", field).AsInt64OK()
				assert.EqualValues(mt, 0, excluded, "field %s must be projected out", field)
			}
		}
	})
}

func TestUserAdsPagesThreeNewestWithoutBlobKeys(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("page two skips the first three and strips storage keys", func(mt *mtest.T) {
		initTestDeps()
		database.Ads = mt.Coll

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "openhouse.ads", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(4)}}),
			mtest.CreateCursorResponse(0, "openhouse.ads", mtest.FirstBatch),
		)

		c, w := testContext(testRequest(http.MethodGet, "/api/user-ads/2", nil))
		c.Params = gin.Params{{Key: "page", Value: "2"}}
		c.Set("userId", primitive.NewObjectID().Hex())

		UserAds(c)
		require.Equal(mt, http.StatusOK, w.Code)
		assert.Contains(mt, w.Body.String(), `"total":4`)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "aggregate", evt.CommandName)

		evt = mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "find", evt.CommandName)

		skip, _ := evt.Command.Lookup("skip").AsInt64OK()
		assert.EqualValues(mt, userAdsPageSize, skip)

		limit, _ := evt.Command.Lookup("limit").AsInt64OK()
		assert.EqualValues(mt, userAdsPageSize, limit)

		sort, _ := evt.Command.Lookup("sort", "createdAt").AsInt64OK()
		assert.EqualValues(mt, -1, sort)

		for _, field := range []string{"googleMap", "location", "photos.Key", "photos.Bucket"} {
			excluded, _ := evt.Command.Lookup("projection", field).AsInt64OK()
			assert.EqualValues(mt, 0, excluded, "field %s must be projected out", field)
		}
	})
}
