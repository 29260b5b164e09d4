package profiles_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	"github.com/dalemusser/devhub/internal/app/features/profiles"
	profilestore "github.com/dalemusser/devhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/devhub/internal/app/store/users"
	"github.com/dalemusser/devhub/internal/app/system/auth"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/dalemusser/devhub/internal/app/system/inputval"
	"github.com/dalemusser/devhub/internal/domain/models"
	"github.com/dalemusser/devhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type errBody struct {
	Error      string                `json:"error"`
	Code       string                `json:"code"`
	Violations []inputval.FieldError `json:"violations"`
}

// mapCache is an in-memory profilecache.Cache that records invalidations.
type mapCache struct {
	mu          sync.Mutex
	m           map[string]models.ProfileView
	invalidated []string
}

func newMapCache() *mapCache { return &mapCache{m: make(map[string]models.ProfileView)} }

func (c *mapCache) Get(_ context.Context, handle string) (models.ProfileView, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[handle]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, handle string, v models.ProfileView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[handle] = v
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, handles ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range handles {
		delete(c.m, h)
	}
	c.invalidated = append(c.invalidated, handles...)
	return nil
}

type env struct {
	store  *profilestore.MemoryStore
	users  *userstore.MemoryStore
	cache  *mapCache
	events *events.Recorder
	h      *profiles.Handler
	router http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := zap.NewNop()
	e := &env{
		store:  profilestore.NewMemory(),
		users:  userstore.NewMemory(),
		cache:  newMapCache(),
		events: &events.Recorder{},
	}
	e.h = profiles.NewHandler(e.store, e.users, e.cache, e.events, apierrors.NewErrorLogger(logger), logger)

	r := chi.NewRouter()
	r.Use(auth.LoadDevUser(""))
	r.Mount("/profiles", profiles.Routes(e.h))
	e.router = r
	return e
}

// do sends a request through the mounted routes. A zero caller is anonymous.
func (e *env) do(method, target, body string, caller primitive.ObjectID) *testutil.ResponseRecorder {
	req := testutil.NewJSONRequest(method, target, body)
	if !caller.IsZero() {
		req.Header.Set(auth.DebugSubjectHeader, caller.Hex())
	}
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) user(t *testing.T, name string) models.UserPublic {
	t.Helper()
	u := models.UserPublic{ID: primitive.NewObjectID(), Name: name, Avatar: "//gravatar/" + name}
	e.users.Put(u)
	return u
}

func (e *env) seed(t *testing.T, owner primitive.ObjectID, handle string) models.Profile {
	t.Helper()
	p, err := e.store.Create(context.Background(), testutil.ValidProfile(owner, handle))
	if err != nil {
		t.Fatalf("seed %s: %v", handle, err)
	}
	return p
}

func profileBody(handle string) string {
	return fmt.Sprintf(`{"handle":%q,"status":"Student","skills":"go, mongodb","twitter":"https://twitter.com/%s"}`, handle, handle)
}

func assertError(t *testing.T, rec *testutil.ResponseRecorder, status int, code string) errBody {
	t.Helper()
	rec.AssertStatus(t, status)
	var body errBody
	rec.DecodeJSON(t, &body)
	if body.Code != code {
		t.Errorf("code = %q, want %q (error %q)", body.Code, code, body.Error)
	}
	return body
}

// --- create ---

func TestCreate_ReturnsViewWithOwner(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")

	rec := e.do(http.MethodPost, "/profiles", profileBody("jdoe"), u.ID)
	rec.AssertStatus(t, http.StatusCreated)

	var v models.ProfileView
	rec.DecodeJSON(t, &v)
	if v.Handle != "jdoe" || v.Status != models.StatusStudent {
		t.Errorf("got handle=%q status=%q", v.Handle, v.Status)
	}
	if v.User.ID != u.ID || v.User.Name != "jane" {
		t.Errorf("owner not joined: %+v", v.User)
	}
	if v.Social.Twitter != "https://twitter.com/jdoe" {
		t.Errorf("twitter not nested into social: %+v", v.Social)
	}
	if len(v.Skills) != 2 {
		t.Errorf("skills = %v", v.Skills)
	}

	stored, err := e.store.GetByUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("profile not stored: %v", err)
	}
	if stored.ID != v.ID {
		t.Errorf("stored id %s != returned id %s", stored.ID.Hex(), v.ID.Hex())
	}

	evs := e.events.Events()
	if len(evs) != 1 || evs[0].Type != events.ProfileCreated || evs[0].ProfileID != v.ID.Hex() {
		t.Errorf("events = %+v", evs)
	}
}

func TestCreate_OneProfilePerUser(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")

	e.do(http.MethodPost, "/profiles", profileBody("jdoe"), u.ID).AssertStatus(t, http.StatusCreated)

	rec := e.do(http.MethodPost, "/profiles", profileBody("other"), u.ID)
	body := assertError(t, rec, http.StatusForbidden, apierrors.CodeAlreadyExists)
	if body.Error != "Profile already exist." {
		t.Errorf("error = %q", body.Error)
	}
}

func TestCreate_DuplicateHandle(t *testing.T) {
	e := newEnv(t)
	e.seed(t, primitive.NewObjectID(), "jdoe")

	rec := e.do(http.MethodPost, "/profiles", profileBody("jdoe"), e.user(t, "sam").ID)
	assertError(t, rec, http.StatusConflict, apierrors.CodeHandleTaken)
}

func TestCreate_RequiresSignIn(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodPost, "/profiles", profileBody("jdoe"), primitive.NilObjectID)
	assertError(t, rec, http.StatusUnauthorized, apierrors.CodeUnauthenticated)
}

func TestCreate_BadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty", "", apierrors.CodeInvalidBody},
		{"not json", "handle=jdoe", apierrors.CodeInvalidBody},
		{"client supplied user", `{"handle":"jdoe","status":"Student","skills":["go"],"user":"64b7f0c2a1b2c3d4e5f60718"}`, apierrors.CodeInvalidBody},
		{"nested social", `{"handle":"jdoe","status":"Student","skills":["go"],"social":{}}`, apierrors.CodeInvalidBody},
		{"two objects", `{"handle":"a"}{"handle":"b"}`, apierrors.CodeInvalidBody},
		{"wrong type", `{"handle":7}`, apierrors.CodeInvalidBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			rec := e.do(http.MethodPost, "/profiles", tt.body, e.user(t, "jane").ID)
			assertError(t, rec, http.StatusBadRequest, tt.code)
		})
	}
}

func TestCreate_ReportsAllViolations(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodPost, "/profiles", `{"status":"Wizard","skills":["go"]}`, e.user(t, "jane").ID)
	body := assertError(t, rec, http.StatusBadRequest, apierrors.CodeValidationFailed)

	got := map[string]bool{}
	for _, v := range body.Violations {
		got[v.Field] = true
	}
	if !got["handle"] || !got["status"] || len(body.Violations) != 2 {
		t.Errorf("violations = %+v, want handle and status", body.Violations)
	}
	if body.Error != body.Violations[0].Message {
		t.Errorf("error %q should be the first violation", body.Error)
	}
	if len(e.events.Events()) != 0 {
		t.Error("rejected create must not publish an event")
	}
}

// --- guards ---

func TestRequireObjectID_StopsChain(t *testing.T) {
	e := newEnv(t)
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/profiles/abc"), "id", "abc")
	rec := testutil.NewRecorder()
	e.h.RequireObjectID("id")(next).ServeHTTP(rec, req)

	assertError(t, rec, http.StatusBadRequest, apierrors.CodeInvalidID)
	if called {
		t.Error("next handler ran after a bad id")
	}
}

func TestLoadByID_AttachesProfile(t *testing.T) {
	e := newEnv(t)
	p := e.seed(t, primitive.NewObjectID(), "jdoe")

	var got models.Profile
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = profiles.FromContext(r.Context())
	})
	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/"), "id", p.ID.Hex())
	rec := testutil.NewRecorder()
	e.h.LoadByID("id")(next).ServeHTTP(rec, req)

	if got.ID != p.ID {
		t.Errorf("attached profile = %s, want %s", got.ID.Hex(), p.ID.Hex())
	}
}

func TestRequireOwner(t *testing.T) {
	e := newEnv(t)
	owner := primitive.NewObjectID()
	p := e.seed(t, owner, "jdoe")

	// LoadByID attaches the profile; RequireOwner then compares it to the caller.
	chain := func(next http.Handler) http.Handler {
		return e.h.LoadByID("id")(e.h.RequireOwner(next))
	}
	tests := []struct {
		name   string
		caller primitive.ObjectID
		want   int
	}{
		{"owner", owner, http.StatusNoContent},
		{"stranger", primitive.NewObjectID(), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest(http.MethodDelete, "/")
			req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
			req = testutil.WithUser(req, tt.caller)
			rec := testutil.NewRecorder()
			chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})).ServeHTTP(rec, req)
			rec.AssertStatus(t, tt.want)
		})
	}
}

// --- reads ---

func TestGetByID(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")
	p := e.seed(t, u.ID, "jdoe")

	rec := e.do(http.MethodGet, "/profiles/"+p.ID.Hex(), "", primitive.NilObjectID)
	rec.AssertStatus(t, http.StatusOK)
	var v models.ProfileView
	rec.DecodeJSON(t, &v)
	if v.ID != p.ID || v.User.Name != "jane" {
		t.Errorf("got %+v", v)
	}

	assertError(t, e.do(http.MethodGet, "/profiles/not-an-id", "", primitive.NilObjectID),
		http.StatusBadRequest, apierrors.CodeInvalidID)
	body := assertError(t, e.do(http.MethodGet, "/profiles/"+primitive.NewObjectID().Hex(), "", primitive.NilObjectID),
		http.StatusNotFound, apierrors.CodeNotFound)
	if body.Error != "The profile with the given id was not found." {
		t.Errorf("error = %q", body.Error)
	}
}

func TestGetByUser(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")
	p := e.seed(t, u.ID, "jdoe")

	rec := e.do(http.MethodGet, "/profiles/user/"+u.ID.Hex(), "", primitive.NilObjectID)
	rec.AssertStatus(t, http.StatusOK)
	var v models.ProfileView
	rec.DecodeJSON(t, &v)
	if v.ID != p.ID {
		t.Errorf("id = %s, want %s", v.ID.Hex(), p.ID.Hex())
	}

	assertError(t, e.do(http.MethodGet, "/profiles/user/xyz", "", primitive.NilObjectID),
		http.StatusBadRequest, apierrors.CodeInvalidID)
	assertError(t, e.do(http.MethodGet, "/profiles/user/"+primitive.NewObjectID().Hex(), "", primitive.NilObjectID),
		http.StatusNotFound, apierrors.CodeNotFound)
}

func TestGetMe(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")

	assertError(t, e.do(http.MethodGet, "/profiles/me", "", primitive.NilObjectID),
		http.StatusUnauthorized, apierrors.CodeUnauthenticated)
	assertError(t, e.do(http.MethodGet, "/profiles/me", "", u.ID),
		http.StatusNotFound, apierrors.CodeNotFound)

	p := e.seed(t, u.ID, "jdoe")
	rec := e.do(http.MethodGet, "/profiles/me", "", u.ID)
	rec.AssertStatus(t, http.StatusOK)
	var v models.ProfileView
	rec.DecodeJSON(t, &v)
	if v.ID != p.ID {
		t.Errorf("id = %s, want %s", v.ID.Hex(), p.ID.Hex())
	}
}

func TestGetByHandle_UsesCache(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")
	p := e.seed(t, u.ID, "jdoe")

	e.do(http.MethodGet, "/profiles/handle/jdoe", "", primitive.NilObjectID).AssertStatus(t, http.StatusOK)
	if _, ok := e.cache.m["jdoe"]; !ok {
		t.Fatal("view was not cached")
	}

	// Remove the profile behind the cache's back; the cached view is still served.
	if err := e.store.Delete(context.Background(), p.ID, u.ID); err != nil {
		t.Fatal(err)
	}
	rec := e.do(http.MethodGet, "/profiles/handle/jdoe", "", primitive.NilObjectID)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"name":"jane"`)

	assertError(t, e.do(http.MethodGet, "/profiles/handle/nobody", "", primitive.NilObjectID),
		http.StatusNotFound, apierrors.CodeNotFound)
}

// --- update ---

func TestUpdate_ReplacesTopLevelFieldsOnly(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")
	p := e.seed(t, u.ID, "jdoe")
	withExp, err := e.store.AppendExperience(context.Background(), u.ID, models.Experience{Title: "Dev", Company: "Acme"})
	if err != nil {
		t.Fatal(err)
	}

	// Warm the cache so the handle change has something to invalidate.
	e.do(http.MethodGet, "/profiles/handle/jdoe", "", primitive.NilObjectID).AssertStatus(t, http.StatusOK)

	body := `{"handle":"jane-doe","status":"Backend Developer","skills":["go","sql"],"company":"Initech"}`
	rec := e.do(http.MethodPut, "/profiles/"+p.ID.Hex(), body, u.ID)
	rec.AssertStatus(t, http.StatusOK)

	var v models.ProfileView
	rec.DecodeJSON(t, &v)
	if v.Handle != "jane-doe" || v.Company != "Initech" || v.Status != models.StatusBackendDeveloper {
		t.Errorf("fields not replaced: %+v", v.Profile)
	}
	if v.Social.Twitter != "" {
		t.Errorf("social should be replaced wholesale, got %+v", v.Social)
	}
	if len(v.Experience) != 1 || v.Experience[0].ID != withExp.Experience[0].ID {
		t.Errorf("experience must be untouched, got %+v", v.Experience)
	}

	if _, ok := e.cache.m["jdoe"]; ok {
		t.Error("old handle still cached after rename")
	}
	evs := e.events.Events()
	if len(evs) != 1 || evs[0].Type != events.ProfileUpdated || evs[0].Handle != "jane-doe" {
		t.Errorf("events = %+v", evs)
	}
}

func TestUpdate_HandleTaken(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")
	p := e.seed(t, u.ID, "jdoe")
	e.seed(t, primitive.NewObjectID(), "taken")

	rec := e.do(http.MethodPut, "/profiles/"+p.ID.Hex(), profileBody("taken"), u.ID)
	assertError(t, rec, http.StatusConflict, apierrors.CodeHandleTaken)
}

func TestUpdateDelete_NonOwnerAlways401(t *testing.T) {
	e := newEnv(t)
	p := e.seed(t, primitive.NewObjectID(), "jdoe")
	stranger := e.user(t, "mallory").ID

	bodies := map[string]string{
		"valid":   profileBody("stolen"),
		"invalid": `{"status":"Wizard"}`,
		"garbage": `not json`,
		"empty":   ``,
	}
	for name, body := range bodies {
		t.Run("PUT "+name, func(t *testing.T) {
			rec := e.do(http.MethodPut, "/profiles/"+p.ID.Hex(), body, stranger)
			eb := assertError(t, rec, http.StatusUnauthorized, apierrors.CodeNotAuthorized)
			if eb.Error != "User not authorized" {
				t.Errorf("error = %q", eb.Error)
			}
		})
	}
	t.Run("DELETE", func(t *testing.T) {
		rec := e.do(http.MethodDelete, "/profiles/"+p.ID.Hex(), "", stranger)
		assertError(t, rec, http.StatusUnauthorized, apierrors.CodeNotAuthorized)
	})

	if got, _ := e.store.GetByID(context.Background(), p.ID); got.Handle != "jdoe" {
		t.Errorf("profile changed by non-owner: %+v", got)
	}
}

func TestUpdate_GuardOrder(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")

	// Anonymous callers fail auth before the id is looked at.
	assertError(t, e.do(http.MethodPut, "/profiles/bad", profileBody("x"), primitive.NilObjectID),
		http.StatusUnauthorized, apierrors.CodeUnauthenticated)
	assertError(t, e.do(http.MethodPut, "/profiles/bad", profileBody("x"), u.ID),
		http.StatusBadRequest, apierrors.CodeInvalidID)
	assertError(t, e.do(http.MethodPut, "/profiles/"+primitive.NewObjectID().Hex(), profileBody("x"), u.ID),
		http.StatusNotFound, apierrors.CodeNotFound)

	p := e.seed(t, u.ID, "jdoe")
	assertError(t, e.do(http.MethodPut, "/profiles/"+p.ID.Hex(), `{"handle":""}`, u.ID),
		http.StatusBadRequest, apierrors.CodeValidationFailed)
}

// --- delete ---

func TestDelete_ReturnsID(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "jane")
	p := e.seed(t, u.ID, "jdoe")

	rec := e.do(http.MethodDelete, "/profiles/"+p.ID.Hex(), "", u.ID)
	rec.AssertStatus(t, http.StatusOK)
	var body map[string]string
	rec.DecodeJSON(t, &body)
	if body["id"] != p.ID.Hex() {
		t.Errorf("body = %v", body)
	}

	if _, err := e.store.GetByID(context.Background(), p.ID); err != profilestore.ErrNotFound {
		t.Errorf("GetByID after delete: %v", err)
	}
	evs := e.events.Events()
	if len(evs) != 1 || evs[0].Type != events.ProfileDeleted {
		t.Errorf("events = %+v", evs)
	}
	if len(e.cache.invalidated) == 0 || e.cache.invalidated[0] != "jdoe" {
		t.Errorf("invalidated = %v", e.cache.invalidated)
	}
}

// --- listing ---

func seedMany(t *testing.T, e *env, n int) []models.Profile {
	t.Helper()
	out := make([]models.Profile, n)
	for i := 0; i < n; i++ {
		u := e.user(t, fmt.Sprintf("user%02d", i))
		out[i] = e.seed(t, u.ID, fmt.Sprintf("h%02d", i))
	}
	return out
}

func listIDs(t *testing.T, rec *testutil.ResponseRecorder) []primitive.ObjectID {
	t.Helper()
	rec.AssertStatus(t, http.StatusOK)
	var items []models.ProfileSummary
	rec.DecodeJSON(t, &items)
	ids := make([]primitive.ObjectID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestList_NewestFirstWithOwners(t *testing.T) {
	e := newEnv(t)
	created := seedMany(t, e, 12)

	rec := e.do(http.MethodGet, "/profiles", "", primitive.NilObjectID)
	rec.AssertStatus(t, http.StatusOK)
	var items []models.ProfileSummary
	rec.DecodeJSON(t, &items)

	if len(items) != 9 {
		t.Fatalf("got %d items, want the default 9", len(items))
	}
	if items[0].ID != created[11].ID {
		t.Errorf("first item = %s, want newest %s", items[0].ID.Hex(), created[11].ID.Hex())
	}
	if items[0].User.Name != "user11" {
		t.Errorf("owner not joined: %+v", items[0].User)
	}
	// Public projection only.
	rec.AssertContains(t, `"skills"`)
	if body := rec.Body.String(); strings.Contains(body, "twitter") || strings.Contains(body, "handle") {
		t.Errorf("listing leaked private fields: %s", body)
	}
}

func TestPaginate(t *testing.T) {
	e := newEnv(t)
	created := seedMany(t, e, 12)

	// Newest first: created[11] is item 1, so items 6..10 are created[6..2].
	got := listIDs(t, e.do(http.MethodGet, "/profiles/paginate?pageNumber=2&pageSize=5", "", primitive.NilObjectID))
	want := []primitive.ObjectID{created[6].ID, created[5].ID, created[4].ID, created[3].ID, created[2].ID}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("page 2 size 5 = %v, want %v", got, want)
	}

	first := listIDs(t, e.do(http.MethodGet, "/profiles/paginate?pageNumber=1&pageSize=9", "", primitive.NilObjectID))
	def := listIDs(t, e.do(http.MethodGet, "/profiles", "", primitive.NilObjectID))
	if fmt.Sprint(first) != fmt.Sprint(def) {
		t.Errorf("paginate(1,9) = %v, list = %v", first, def)
	}

	defaults := listIDs(t, e.do(http.MethodGet, "/profiles/paginate", "", primitive.NilObjectID))
	if fmt.Sprint(defaults) != fmt.Sprint(def) {
		t.Errorf("paginate with no params = %v, want default list", defaults)
	}

	past := listIDs(t, e.do(http.MethodGet, "/profiles/paginate?pageNumber=9&pageSize=5", "", primitive.NilObjectID))
	if len(past) != 0 {
		t.Errorf("page past the end = %v, want empty", past)
	}
}

func TestPaginate_BadParams(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		query  string
		fields []string
	}{
		{"pageNumber=abc&pageSize=5", []string{"pageNumber"}},
		{"pageNumber=0", []string{"pageNumber"}},
		{"pageSize=-3", []string{"pageSize"}},
		{"pageSize=51", []string{"pageSize"}},
		{"pageNumber=x&pageSize=y", []string{"pageNumber", "pageSize"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := e.do(http.MethodGet, "/profiles/paginate?"+tt.query, "", primitive.NilObjectID)
			body := assertError(t, rec, http.StatusBadRequest, apierrors.CodeValidationFailed)
			var got []string
			for _, v := range body.Violations {
				got = append(got, v.Field)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.fields) {
				t.Errorf("fields = %v, want %v", got, tt.fields)
			}
		})
	}
}
