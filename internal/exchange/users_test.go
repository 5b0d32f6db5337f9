package exchange

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserFirstReferrerWins(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	res, err := svc.RegisterUser(ctx, Registration{UserID: traderID, Username: "bob"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.False(t, res.ReferrerApplied)
	assert.Nil(t, res.User.ReferredBy)

	res, err = svc.RegisterUser(ctx, Registration{UserID: traderID, ReferrerID: int64Ptr(referrerID)})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.True(t, res.ReferrerApplied)

	res, err = svc.RegisterUser(ctx, Registration{UserID: traderID, ReferrerID: int64Ptr(999)})
	require.NoError(t, err)
	assert.False(t, res.ReferrerApplied)

	u := store.user(traderID)
	require.NotNil(t, u.ReferredBy)
	assert.Equal(t, referrerID, *u.ReferredBy)
	assert.Equal(t, "bob", u.Username)
}

func TestRegisterUserIgnoresSelfReferral(t *testing.T) {
	svc, store := newTestService(t)

	res, err := svc.RegisterUser(context.Background(), Registration{UserID: traderID, ReferrerID: int64Ptr(traderID)})
	require.NoError(t, err)
	assert.False(t, res.ReferrerApplied)
	assert.Nil(t, store.user(traderID).ReferredBy)
	assert.Equal(t, "unknown", store.user(traderID).Username)
}

func TestRegisterUserLanguage(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, Registration{UserID: 1, Language: "ru-RU"})
	require.NoError(t, err)
	_, err = svc.RegisterUser(ctx, Registration{UserID: 2, Language: "de"})
	require.NoError(t, err)

	assert.Equal(t, "ru", store.user(1).Language)
	assert.Equal(t, "en", store.user(2).Language)
}

func TestParseReferrer(t *testing.T) {
	assert.Equal(t, int64(42), *ParseReferrer("42"))
	assert.Equal(t, int64(42), *ParseReferrer(" 42 "))
	assert.Nil(t, ParseReferrer(""))
	assert.Nil(t, ParseReferrer("abc"))
	assert.Nil(t, ParseReferrer("-5"))
}

func TestUpdateTonAddress(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	_, err := svc.RegisterUser(ctx, Registration{UserID: traderID})
	require.NoError(t, err)

	addr, err := svc.UpdateTonAddress(ctx, traderID, " EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N ")
	require.NoError(t, err)
	require.NotNil(t, store.user(traderID).TonCoinAddress)
	assert.Equal(t, addr, *store.user(traderID).TonCoinAddress)

	_, err = svc.UpdateTonAddress(ctx, traderID, "not an address")
	assert.True(t, IsValidation(err))

	_, err = svc.UpdateTonAddress(ctx, 777, "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N")
	assert.True(t, IsNotFound(err))
}

func TestUpdateLanguageRefreshesCache(t *testing.T) {
	cache := newMemLanguageCache()
	svc, store := newTestService(t, WithLanguageCache(cache))
	ctx := context.Background()
	_, err := svc.RegisterUser(ctx, Registration{UserID: traderID})
	require.NoError(t, err)

	lang, err := svc.UserLanguage(ctx, traderID)
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	lang, err = svc.UpdateLanguage(ctx, traderID, "ch")
	require.NoError(t, err)
	assert.Equal(t, "zh", lang)
	assert.Equal(t, "zh", store.user(traderID).Language)

	lang, err = svc.UserLanguage(ctx, traderID)
	require.NoError(t, err)
	assert.Equal(t, "zh", lang)

	_, err = svc.UpdateLanguage(ctx, traderID, "klingon")
	assert.True(t, IsValidation(err))
}

func TestUserLanguageUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UserLanguage(context.Background(), 404)
	assert.True(t, IsNotFound(err))
}
