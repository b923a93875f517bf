package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/amorty/cafe-admin/middlewares"
	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/services"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
)

// RecordController serves generic CRUD for every entity kind. Each request
// gets its own Dashboard, scoped to the caller.
type RecordController struct {
	Store    store.Store
	OnChange services.ChangeFunc
}

func NewRecordController(s store.Store, onChange services.ChangeFunc) *RecordController {
	return &RecordController{Store: s, OnChange: onChange}
}

// dashboard opens a dashboard on the :kind tab. It writes the error response
// and returns nil when that fails.
func (rc *RecordController) dashboard(c *gin.Context) *services.Dashboard {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, models.ErrMissingToken)
		return nil
	}
	d := services.NewDashboard(rc.Store, actor)
	d.OnChange = rc.OnChange
	if err := d.SelectTab(c.Request.Context(), c.Param("kind")); err != nil {
		utils.RespondAppError(c, err)
		return nil
	}
	return d
}

// ListKinds returns the descriptors of every kind the caller may read.
func (rc *RecordController) ListKinds(c *gin.Context) {
	actor, _ := middlewares.CurrentActor(c)
	kinds := make([]*schema.Kind, 0)
	for _, k := range schema.All() {
		if services.CanRead(actor, k) {
			kinds = append(kinds, k)
		}
	}
	utils.RespondJSON(c, http.StatusOK, "List of kinds", kinds)
}

func (rc *RecordController) List(c *gin.Context) {
	d := rc.dashboard(c)
	if d == nil {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of "+d.Tab().Name, d.Rows())
}

func (rc *RecordController) Get(c *gin.Context) {
	d := rc.dashboard(c)
	if d == nil {
		return
	}
	rec, err := d.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, d.Tab().Label+" found", rec)
}

func (rc *RecordController) Create(c *gin.Context) {
	body, ok := bindFields(c)
	if !ok {
		return
	}
	d := rc.dashboard(c)
	if d == nil {
		return
	}
	if err := d.OpenAdd(); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	rc.save(c, d, body, http.StatusCreated, " created successfully")
}

func (rc *RecordController) Update(c *gin.Context) {
	body, ok := bindFields(c)
	if !ok {
		return
	}
	d := rc.dashboard(c)
	if d == nil {
		return
	}
	rec, err := d.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if err := d.OpenEdit(rec); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	rc.save(c, d, body, http.StatusOK, " updated successfully")
}

func (rc *RecordController) save(c *gin.Context, d *services.Dashboard, body map[string]string, code int, suffix string) {
	// apply fields in a fixed order so the first bad one is reported consistently
	names := make([]string, 0, len(body))
	for name := range body {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := d.SetField(name, body[name]); err != nil {
			utils.RespondAppError(c, err)
			return
		}
	}

	saved, err := d.Save(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	key := d.Tab().KeyOf(saved)
	utils.InfoLogger.Printf("%s %s%s", d.Tab().Label, key, suffix)
	utils.RespondJSON(c, code, d.Tab().Label+suffix, saved)
}

func (rc *RecordController) Delete(c *gin.Context) {
	d := rc.dashboard(c)
	if d == nil {
		return
	}
	key := c.Param("id")
	if err := d.Delete(c.Request.Context(), key); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.InfoLogger.Printf("%s %s deleted", d.Tab().Label, key)
	utils.RespondJSON(c, http.StatusOK, d.Tab().Label+" deleted successfully", nil)
}

// Options lists the allowed values of a reference field.
func (rc *RecordController) Options(c *gin.Context) {
	d := rc.dashboard(c)
	if d == nil {
		return
	}
	opts, err := d.Options(c.Request.Context(), c.Param("field"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of options", opts)
}

// bindFields reads a flat JSON object and renders every value as form text.
func bindFields(c *gin.Context) (map[string]string, bool) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, false
	}

	out := make(map[string]string, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case nil:
			out[name] = ""
		case string:
			out[name] = val
		case float64:
			out[name] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[name] = strconv.FormatBool(val)
		default:
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("field %s must be a scalar", name))
			return nil, false
		}
	}
	return out, true
}
