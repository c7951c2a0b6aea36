package impl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/usecase"
)

// deviceServiceFixtures holds all test dependencies for device service tests.
type deviceServiceFixtures struct {
	service usecase.DeviceUsecase
	store   *testStore
	owner   *entity.User
	other   *entity.User
}

func createTestDeviceService(t *testing.T) deviceServiceFixtures {
	store := newTestStore(t)

	return deviceServiceFixtures{
		service: NewDeviceService(DeviceServiceParams{
			DeviceRepo: store.devices,
			Logger:     newDiscardLogger(),
		}),
		store: store,
		owner: store.seedUser(t, "owner", entity.RoleSeller),
		other: store.seedUser(t, "other", entity.RoleCustomer),
	}
}

func TestDeviceService_RegisterDevice_NewDevice(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	device, err := fx.service.RegisterDevice(ctx, fx.owner.ID, &usecase.DeviceInfo{
		FCMToken: "token-1",
		DeviceID: "pixel-8",
		Platform: "Android",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, device.ID)
	assert.Equal(t, fx.owner.ID, device.UserID)
	assert.Equal(t, "android", device.Platform)
	assert.True(t, device.IsActive)

	devices, err := fx.service.GetUserDevices(ctx, fx.owner.ID)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "token-1", devices[0].FCMToken)
}

func TestDeviceService_RegisterDevice_ExistingDeviceRefreshesToken(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	first, err := fx.service.RegisterDevice(ctx, fx.owner.ID, &usecase.DeviceInfo{FCMToken: "old", DeviceID: "iphone", Platform: "ios"})
	require.NoError(t, err)
	require.NoError(t, fx.store.devices.DeactivateByTokens(ctx, []string{"old"}))

	second, err := fx.service.RegisterDevice(ctx, fx.owner.ID, &usecase.DeviceInfo{FCMToken: "new", DeviceID: "iphone", Platform: "ios"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "new", second.FCMToken)
	assert.True(t, second.IsActive)
}

func TestDeviceService_RegisterDevice_Validation(t *testing.T) {
	fx := createTestDeviceService(t)

	_, err := fx.service.RegisterDevice(context.Background(), fx.owner.ID, &usecase.DeviceInfo{DeviceID: "pixel"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestDeviceService_OwnershipIsEnforced(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	device, err := fx.service.RegisterDevice(ctx, fx.owner.ID, &usecase.DeviceInfo{FCMToken: "token", DeviceID: "pixel", Platform: "android"})
	require.NoError(t, err)

	err = fx.service.UpdateFCMToken(ctx, fx.other.ID, device.ID, "stolen")
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	err = fx.service.DeactivateDevice(ctx, fx.other.ID, device.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	err = fx.service.UpdateFCMToken(ctx, fx.owner.ID, uuid.New(), "token")
	assert.True(t, errors.Is(err, domainerrors.ErrDeviceNotFound))

	stored, err := fx.store.devices.FindDeviceByID(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, "token", stored.FCMToken)
}

func TestDeviceService_UpdateAndDeactivate(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	device, err := fx.service.RegisterDevice(ctx, fx.owner.ID, &usecase.DeviceInfo{FCMToken: "token", DeviceID: "pixel", Platform: "android"})
	require.NoError(t, err)

	require.NoError(t, fx.service.UpdateFCMToken(ctx, fx.owner.ID, device.ID, "rotated"))
	stored, err := fx.store.devices.FindDeviceByID(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", stored.FCMToken)

	require.NoError(t, fx.service.DeactivateDevice(ctx, fx.owner.ID, device.ID))
	devices, err := fx.service.GetUserDevices(ctx, fx.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, devices)

	err = fx.service.DeactivateDevice(ctx, fx.owner.ID, device.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrDeviceNotFound))
}
