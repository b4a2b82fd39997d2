//go:build unix

package steam

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"runtime"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/modshipapp/modship/internal/domain"
)

// Steamworks interface accessor symbols. The version suffix changes with
// SDK releases; probing for the current one and falling back to the last
// revision with the old query signature is how the drift adapter decides
// which call shape to use.
const (
	symUGCCurrent = "SteamAPI_SteamUGC_v021"
	symUGCLegacy  = "SteamAPI_SteamUGC_v017"
)

// Callback IDs for the call results we wait on.
const (
	cbSteamUGCQueryCompleted = 3401
	cbCreateItemResult       = 3403
	cbSubmitItemUpdateResult = 3404
	cbDeleteItemResult       = 3417
)

// UGC query constants.
const (
	userListPublished        = 0
	matchingUGCTypeItems     = 0
	userListSortCreationDesc = 0

	statSubscriptions = 0 // k_EItemStatistic_NumSubscriptions
	statFavorites     = 1 // k_EItemStatistic_NumFavorites
	statWebsiteViews  = 6 // k_EItemStatistic_NumUniqueWebsiteViews
)

const callPollInterval = 50 * time.Millisecond

// nativeClient binds the flat Steamworks C API through purego.
type nativeClient struct {
	lib    uintptr
	logger *slog.Logger
	appID  uint32

	legacyQuery bool

	apiInit         func() bool
	apiShutdown     func()
	apiRunCallbacks func()

	steamUGC     func() uintptr
	steamUser    func() uintptr
	steamFriends func() uintptr
	steamUtils   func() uintptr

	userGetSteamID func(uintptr) uint64
	userLoggedOn   func(uintptr) bool
	personaName    func(uintptr) string

	utilsIsAPICallCompleted func(uintptr, uint64, *bool) bool
	utilsGetAPICallResult   func(uintptr, uint64, unsafe.Pointer, int32, int32, *bool) bool

	ugcCreateItem         func(uintptr, uint32, int32) uint64
	ugcStartItemUpdate    func(uintptr, uint32, uint64) uint64
	ugcSetItemTitle       func(uintptr, uint64, string) bool
	ugcSetItemDescription func(uintptr, uint64, string) bool
	ugcSetItemVisibility  func(uintptr, uint64, int32) bool
	ugcSetItemTags        func(uintptr, uint64, unsafe.Pointer) bool
	ugcSetItemContent     func(uintptr, uint64, string) bool
	ugcSetItemPreview     func(uintptr, uint64, string) bool
	ugcSubmitItemUpdate   func(uintptr, uint64, string) uint64
	ugcDeleteItem         func(uintptr, uint64) uint64

	ugcCreateQueryCurrent func(uintptr, uint32, int32, int32, int32, uint32, uint32, uint32) uint64
	ugcCreateQueryLegacy  func(uintptr, uint32, int32, int32, int32, uint32) uint64
	ugcSendQuery          func(uintptr, uint64) uint64
	ugcGetQueryResult     func(uintptr, uint64, uint32, unsafe.Pointer) bool
	ugcGetQueryStatistic  func(uintptr, uint64, uint32, int32, *uint64) bool
	ugcReleaseQuery       func(uintptr, uint64) bool

	overlayToURL func(uintptr, string)
}

// NewNative loads the Steamworks shared library and binds the calls the
// uploader uses. libraryPath overrides the default library name lookup.
func NewNative(libraryPath string, logger *slog.Logger) (API, error) {
	if libraryPath == "" {
		libraryPath = defaultLibraryName()
	}

	lib, err := purego.Dlopen(libraryPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("load steamworks library %s: %w", libraryPath, err)
	}

	c := &nativeClient{lib: lib, logger: logger}

	purego.RegisterLibFunc(&c.apiInit, lib, "SteamAPI_Init")
	purego.RegisterLibFunc(&c.apiShutdown, lib, "SteamAPI_Shutdown")
	purego.RegisterLibFunc(&c.apiRunCallbacks, lib, "SteamAPI_RunCallbacks")

	purego.RegisterLibFunc(&c.steamUser, lib, "SteamAPI_SteamUser_v023")
	purego.RegisterLibFunc(&c.steamFriends, lib, "SteamAPI_SteamFriends_v018")
	purego.RegisterLibFunc(&c.steamUtils, lib, "SteamAPI_SteamUtils_v010")

	purego.RegisterLibFunc(&c.userGetSteamID, lib, "SteamAPI_ISteamUser_GetSteamID")
	purego.RegisterLibFunc(&c.userLoggedOn, lib, "SteamAPI_ISteamUser_BLoggedOn")
	purego.RegisterLibFunc(&c.personaName, lib, "SteamAPI_ISteamFriends_GetPersonaName")

	purego.RegisterLibFunc(&c.utilsIsAPICallCompleted, lib, "SteamAPI_ISteamUtils_IsAPICallCompleted")
	purego.RegisterLibFunc(&c.utilsGetAPICallResult, lib, "SteamAPI_ISteamUtils_GetAPICallResult")

	// Interface revision probe doubles as the query signature switch:
	// SDKs old enough to ship the short CreateQueryUserUGCRequest also
	// ship the older UGC accessor.
	if _, err := purego.Dlsym(lib, symUGCCurrent); err == nil {
		purego.RegisterLibFunc(&c.steamUGC, lib, symUGCCurrent)
		purego.RegisterLibFunc(&c.ugcCreateQueryCurrent, lib, "SteamAPI_ISteamUGC_CreateQueryUserUGCRequest")
	} else {
		c.legacyQuery = true
		purego.RegisterLibFunc(&c.steamUGC, lib, symUGCLegacy)
		purego.RegisterLibFunc(&c.ugcCreateQueryLegacy, lib, "SteamAPI_ISteamUGC_CreateQueryUserUGCRequest")
		logger.Info("using legacy workshop query signature", "accessor", symUGCLegacy)
	}

	purego.RegisterLibFunc(&c.ugcCreateItem, lib, "SteamAPI_ISteamUGC_CreateItem")
	purego.RegisterLibFunc(&c.ugcStartItemUpdate, lib, "SteamAPI_ISteamUGC_StartItemUpdate")
	purego.RegisterLibFunc(&c.ugcSetItemTitle, lib, "SteamAPI_ISteamUGC_SetItemTitle")
	purego.RegisterLibFunc(&c.ugcSetItemDescription, lib, "SteamAPI_ISteamUGC_SetItemDescription")
	purego.RegisterLibFunc(&c.ugcSetItemVisibility, lib, "SteamAPI_ISteamUGC_SetItemVisibility")
	purego.RegisterLibFunc(&c.ugcSetItemTags, lib, "SteamAPI_ISteamUGC_SetItemTags")
	purego.RegisterLibFunc(&c.ugcSetItemContent, lib, "SteamAPI_ISteamUGC_SetItemContent")
	purego.RegisterLibFunc(&c.ugcSetItemPreview, lib, "SteamAPI_ISteamUGC_SetItemPreview")
	purego.RegisterLibFunc(&c.ugcSubmitItemUpdate, lib, "SteamAPI_ISteamUGC_SubmitItemUpdate")
	purego.RegisterLibFunc(&c.ugcDeleteItem, lib, "SteamAPI_ISteamUGC_DeleteItem")
	purego.RegisterLibFunc(&c.ugcSendQuery, lib, "SteamAPI_ISteamUGC_SendQueryUGCRequest")
	purego.RegisterLibFunc(&c.ugcGetQueryResult, lib, "SteamAPI_ISteamUGC_GetQueryUGCResult")
	purego.RegisterLibFunc(&c.ugcGetQueryStatistic, lib, "SteamAPI_ISteamUGC_GetQueryUGCStatistic")
	purego.RegisterLibFunc(&c.ugcReleaseQuery, lib, "SteamAPI_ISteamUGC_ReleaseQueryUGCRequest")

	purego.RegisterLibFunc(&c.overlayToURL, lib, "SteamAPI_ISteamFriends_ActivateGameOverlayToWebPage")

	return c, nil
}

func defaultLibraryName() string {
	if runtime.GOOS == "darwin" {
		return "libsteam_api.dylib"
	}
	return "libsteam_api.so"
}

func (c *nativeClient) Init(appID uint32) error {
	if !c.apiInit() {
		return fmt.Errorf("SteamAPI_Init failed, is the Steam client running?")
	}
	c.appID = appID
	return nil
}

func (c *nativeClient) Shutdown() {
	c.apiShutdown()
}

func (c *nativeClient) CurrentUser() (*domain.SteamUser, error) {
	user := c.steamUser()
	if !c.userLoggedOn(user) {
		// Mirrors the SDK's own complaint so callers can recognize the
		// signed-out state.
		return nil, fmt.Errorf("steamworks: no global user present, is a user signed in?")
	}
	steamID := c.userGetSteamID(user)
	return &domain.SteamUser{
		ID:   fmt.Sprintf("%d", steamID),
		Name: c.personaName(c.steamFriends()),
	}, nil
}

func (c *nativeClient) CreateItem(ctx context.Context) (uint64, error) {
	call := c.ugcCreateItem(c.steamUGC(), c.appID, 0) // k_EWorkshopFileTypeCommunity

	// CreateItemResult_t: EResult at 0, PublishedFileId at 4 (4-byte
	// packing), legal agreement flag at 12.
	buf := make([]byte, 16)
	if err := c.waitForAPICall(ctx, call, buf, cbCreateItemResult); err != nil {
		return 0, err
	}
	if result := int32(binary.LittleEndian.Uint32(buf[0:4])); result != ResultOK {
		return 0, &ResultError{Code: result}
	}
	itemID := binary.LittleEndian.Uint64(buf[4:12])
	if buf[12] != 0 {
		c.logger.Warn("workshop legal agreement not yet accepted", "item_id", itemID)
	}
	return itemID, nil
}

func (c *nativeClient) SubmitUpdate(ctx context.Context, update ItemUpdate) error {
	ugc := c.steamUGC()
	handle := c.ugcStartItemUpdate(ugc, c.appID, update.ItemID)

	if update.Title != nil {
		c.ugcSetItemTitle(ugc, handle, *update.Title)
	}
	if update.Description != nil {
		c.ugcSetItemDescription(ugc, handle, *update.Description)
	}
	if update.Visibility != nil {
		c.ugcSetItemVisibility(ugc, handle, int32(update.Visibility.RemoteCode()))
	}
	if update.Tags != nil {
		c.setTags(ugc, handle, update.Tags)
	}
	if update.ContentPath != nil {
		c.ugcSetItemContent(ugc, handle, *update.ContentPath)
	}
	if update.PreviewPath != nil {
		c.ugcSetItemPreview(ugc, handle, *update.PreviewPath)
	}

	call := c.ugcSubmitItemUpdate(ugc, handle, update.ChangeNotes)

	// SubmitItemUpdateResult_t: EResult at 0.
	buf := make([]byte, 16)
	if err := c.waitForAPICall(ctx, call, buf, cbSubmitItemUpdateResult); err != nil {
		return err
	}
	if result := int32(binary.LittleEndian.Uint32(buf[0:4])); result != ResultOK {
		return &ResultError{Code: result}
	}
	return nil
}

// setTags marshals a SteamParamStringArray_t by hand: an array of C string
// pointers plus a count.
func (c *nativeClient) setTags(ugc uintptr, handle uint64, tags []string) {
	cstrings := make([][]byte, len(tags))
	pointers := make([]uintptr, len(tags))
	for i, tag := range tags {
		cstrings[i] = append([]byte(tag), 0)
		pointers[i] = uintptr(unsafe.Pointer(&cstrings[i][0]))
	}

	var array struct {
		strings unsafe.Pointer
		count   int32
	}
	if len(pointers) > 0 {
		array.strings = unsafe.Pointer(&pointers[0])
	}
	array.count = int32(len(tags))

	c.ugcSetItemTags(ugc, handle, unsafe.Pointer(&array))
	runtime.KeepAlive(cstrings)
	runtime.KeepAlive(pointers)
}

func (c *nativeClient) DeleteItem(ctx context.Context, itemID uint64) error {
	call := c.ugcDeleteItem(c.steamUGC(), itemID)

	// DeleteItemResult_t: EResult at 0, PublishedFileId at 4.
	buf := make([]byte, 12)
	if err := c.waitForAPICall(ctx, call, buf, cbDeleteItemResult); err != nil {
		return err
	}
	if result := int32(binary.LittleEndian.Uint32(buf[0:4])); result != ResultOK {
		return &ResultError{Code: result}
	}
	return nil
}

func (c *nativeClient) ListUserItems(ctx context.Context) ([]RawItem, error) {
	accountID := uint32(c.userGetSteamID(c.steamUser()) & 0xFFFFFFFF)

	var items []RawItem
	for page := uint32(1); ; page++ {
		returned, total, pageItems, err := c.queryPage(ctx, accountID, page)
		if err != nil {
			return nil, err
		}
		items = append(items, pageItems...)
		if returned == 0 || uint32(len(items)) >= total {
			return items, nil
		}
	}
}

// queryPage fetches one page of the user's published items. The two query
// signatures differ only in the trailing app ID pair; the page number is
// always last.
func (c *nativeClient) queryPage(ctx context.Context, accountID, page uint32) (uint32, uint32, []RawItem, error) {
	ugc := c.steamUGC()

	var handle uint64
	if c.legacyQuery {
		handle = c.ugcCreateQueryLegacy(ugc, accountID,
			userListPublished, matchingUGCTypeItems, userListSortCreationDesc, page)
	} else {
		handle = c.ugcCreateQueryCurrent(ugc, accountID,
			userListPublished, matchingUGCTypeItems, userListSortCreationDesc,
			c.appID, c.appID, page)
	}
	defer c.ugcReleaseQuery(ugc, handle)

	call := c.ugcSendQuery(ugc, handle)

	// SteamUGCQueryCompleted_t: handle at 0, EResult at 8, results
	// returned at 12, total matching at 16.
	buf := make([]byte, 24)
	if err := c.waitForAPICall(ctx, call, buf, cbSteamUGCQueryCompleted); err != nil {
		return 0, 0, nil, err
	}
	if result := int32(binary.LittleEndian.Uint32(buf[8:12])); result != ResultOK {
		return 0, 0, nil, &ResultError{Code: result}
	}
	returned := binary.LittleEndian.Uint32(buf[12:16])
	total := binary.LittleEndian.Uint32(buf[16:20])

	items := make([]RawItem, 0, returned)
	for i := uint32(0); i < returned; i++ {
		item, ok := c.queryResult(ugc, handle, i)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return returned, total, items, nil
}

// SteamUGCDetails_t field offsets under 4-byte packing. Only the fields
// the uploader consumes are mapped.
const (
	detailsSize             = 9776
	offDetailsFileID        = 0
	offDetailsResult        = 8
	offDetailsTitle         = 24   // char[129]
	offDetailsDescription   = 153  // char[8000]
	offDetailsTimeCreated   = 8161
	offDetailsTimeUpdated   = 8165
	offDetailsVisibility    = 8173
	offDetailsTags          = 8180 // char[1025]
	lenDetailsTitle         = 129
	lenDetailsDescription   = 8000
	lenDetailsTags          = 1025
)

func (c *nativeClient) queryResult(ugc uintptr, handle uint64, index uint32) (RawItem, bool) {
	buf := make([]byte, detailsSize)
	if !c.ugcGetQueryResult(ugc, handle, index, unsafe.Pointer(&buf[0])) {
		return RawItem{}, false
	}
	if result := int32(binary.LittleEndian.Uint32(buf[offDetailsResult : offDetailsResult+4])); result != ResultOK {
		return RawItem{}, false
	}

	item := RawItem{
		ID:          binary.LittleEndian.Uint64(buf[offDetailsFileID : offDetailsFileID+8]),
		Title:       cstring(buf[offDetailsTitle : offDetailsTitle+lenDetailsTitle]),
		Description: cstring(buf[offDetailsDescription : offDetailsDescription+lenDetailsDescription]),
		Tags:        domain.SplitTags(cstring(buf[offDetailsTags : offDetailsTags+lenDetailsTags])),
		Visibility:  int(int32(binary.LittleEndian.Uint32(buf[offDetailsVisibility : offDetailsVisibility+4]))),
		CreatedAt:   binary.LittleEndian.Uint32(buf[offDetailsTimeCreated : offDetailsTimeCreated+4]),
		UpdatedAt:   binary.LittleEndian.Uint32(buf[offDetailsTimeUpdated : offDetailsTimeUpdated+4]),
	}

	c.ugcGetQueryStatistic(ugc, handle, index, statSubscriptions, &item.Subscriptions)
	c.ugcGetQueryStatistic(ugc, handle, index, statFavorites, &item.Favorites)
	c.ugcGetQueryStatistic(ugc, handle, index, statWebsiteViews, &item.Views)

	return item, true
}

func (c *nativeClient) ActivateOverlayToURL(url string) {
	c.overlayToURL(c.steamFriends(), url)
}

// waitForAPICall pumps the callback queue until the async call settles and
// copies its result struct into buf.
func (c *nativeClient) waitForAPICall(ctx context.Context, call uint64, buf []byte, callbackID int32) error {
	utils := c.steamUtils()
	for {
		c.apiRunCallbacks()

		var failed bool
		if c.utilsIsAPICallCompleted(utils, call, &failed) {
			if failed {
				return fmt.Errorf("steam api call %d failed", call)
			}
			if !c.utilsGetAPICallResult(utils, call, unsafe.Pointer(&buf[0]), int32(len(buf)), callbackID, &failed) || failed {
				return fmt.Errorf("steam api call %d produced no result", call)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(callPollInterval):
		}
	}
}

// cstring reads a NUL-terminated string out of a fixed-size field.
func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
