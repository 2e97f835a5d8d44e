package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestionschool/gestionecole/core/school"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Gestion Ecole API!", rec.Body.String())
}

func Test_recordAPI_crud(t *testing.T) {
	app := setup(t)

	// create
	req, rec := newRequest(http.MethodPost, "/api/classes", []byte(`{"nomClasse": "3A", "niveau": "Troisième", "capacite": 35}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	class := decode[school.Class](t, rec)
	require.NotEmpty(t, class.ID)
	assert.Equal(t, "3A", *class.Name)
	assert.Equal(t, "Troisième", *class.Level)
	assert.Equal(t, 35, *class.Capacity)
	assert.Nil(t, class.Description)

	path := "/api/classes/" + class.ID
	replaced := school.Class{ID: class.ID, Name: strPtr("3B")}

	runHTTPTests(t, app, []httpTest{
		{name: "list", path: "/api/classes", wantCode: http.StatusOK, wantData: marshallList(t, class)},
		{name: "list (trailing slash)", path: "/api/classes/", wantCode: http.StatusOK, wantData: marshallList(t, class)},
		{name: "retrieve", path: path, wantCode: http.StatusOK, wantData: marshallObj(t, class)},
		{name: "retrieve (unknown)", path: "/api/classes/lol", wantCode: http.StatusOK},
		{
			// the path id wins over the body id, missing fields are cleared
			name: "update", method: http.MethodPut, path: path, body: []byte(`{"id": "other", "nomClasse": "3B"}`),
			wantCode: http.StatusOK, wantData: marshallObj(t, replaced),
		},
		{name: "retrieve (updated)", path: path, wantCode: http.StatusOK, wantData: marshallObj(t, replaced)},
		{name: "list (no duplicate)", path: "/api/classes", wantCode: http.StatusOK, wantData: marshallList(t, replaced)},
		{name: "retrieve (body id)", path: "/api/classes/other", wantCode: http.StatusOK},
		{name: "delete", method: http.MethodDelete, path: path, wantCode: http.StatusOK},
		{name: "retrieve (deleted)", path: path, wantCode: http.StatusOK},
		{name: "delete (again)", method: http.MethodDelete, path: path, wantCode: http.StatusOK},
		{name: "list (empty)", path: "/api/classes", wantCode: http.StatusOK, wantData: marshallList(t)},
	})
}

func Test_recordAPI_update_creates(t *testing.T) {
	app := setup(t)

	teacher := school.Teacher{ID: "t-1", LastName: strPtr("Mbala"), Email: strPtr("mbala@ecole.cd")}
	runHTTPTests(t, app, []httpTest{
		{
			name: "update (unknown id)", method: http.MethodPut, path: "/api/enseignants/t-1", body: marshallObj(t, teacher),
			wantCode: http.StatusOK, wantData: marshallObj(t, teacher),
		},
		{name: "retrieve", path: "/api/enseignants/t-1", wantCode: http.StatusOK, wantData: marshallObj(t, teacher)},
	})
}

func Test_recordAPI_collections(t *testing.T) {
	app := setup(t)

	tests := []struct {
		path string
		body string
	}{
		{"/api/classes", `{"nomClasse": "6B", "description": "Sixième B"}`},
		{"/api/cours", `{"nomCours": "Maths", "duree": 40, "classe": "6B"}`},
		{"/api/eleves", `{"nom": "Kabila", "prenom": "Ange", "sexe": "F", "nomClasse": "6B", "matricule": "M-001", "telephone": " 0810000000 "}`},
		{"/api/enseignants", `{"nomEnseignant": "Mbala", "specialite": "Maths"}`},
		{"/api/emargements", `{"eleveId": "e-1", "coursId": "c-1", "date": "2024-09-02", "present": false}`},
		{"/api/emploisdutemps", `{"classeId": "6B", "jour": "Lundi", "heureDebut": "08:00", "heureFin": "10:00"}`},
		{"/api/notes", `{"matriculeEleve": "M-001", "nomCours": "Maths", "valeur": 15.5, "typeEvaluation": "Examen"}`},
		{"/api/scolarites", `{"matriculeEleve": "M-001", "montantAnnuel": 1200, "mois": "Septembre", "annee": 2024}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, []byte(tt.body))
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			created := decode[map[string]interface{}](t, rec)
			id, _ := created["id"].(string)
			require.NotEmpty(t, id)

			req, rec = newRequest(http.MethodGet, tt.path+"/"+id)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, created)}, rec)
		})
	}

	runHTTPTests(t, app, []httpTest{
		{
			name: "stats", path: "/api/statistiques", wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]int{
				"classes": 1, "cours": 1, "eleves": 1, "enseignants": 1,
				"emargements": 1, "emploisdutemps": 1, "notes": 1, "scolarites": 1,
				"telephones": 1,
			}),
		},
	})
}

func Test_recordAPI_nullable(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/api/emargements", []byte(`{"eleveId": "e-1", "present": false, "date": null}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	mark := decode[school.AttendanceMark](t, rec)
	require.NotNil(t, mark.Present)
	assert.False(t, *mark.Present)
	assert.Nil(t, mark.Date)
	assert.Nil(t, mark.CourseID)
}

func Test_recordAPI_stringValues(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name  string
		path  string
		body  string
		field string
		want  interface{}
	}{
		{name: "int", path: "/api/classes", body: `{"nomClasse": "3A", "capacite": "35"}`, field: "capacite", want: 35.0},
		{name: "blank int", path: "/api/classes", body: `{"nomClasse": "3B", "capacite": ""}`, field: "capacite", want: nil},
		{name: "plain int", path: "/api/classes", body: `{"nomClasse": "3C", "capacite": 40}`, field: "capacite", want: 40.0},
		{name: "padded int", path: "/api/cours", body: `{"nomCours": "Maths", "duree": " 40 "}`, field: "duree", want: 40.0},
		{name: "float", path: "/api/notes", body: `{"nomCours": "Maths", "valeur": "15.5"}`, field: "valeur", want: 15.5},
		{name: "blank float", path: "/api/scolarites", body: `{"montantAnnuel": " "}`, field: "montantAnnuel", want: nil},
		{name: "bool", path: "/api/emargements", body: `{"eleveId": "e-1", "present": "true"}`, field: "present", want: true},
		{name: "blank string kept", path: "/api/enseignants", body: `{"nomEnseignant": ""}`, field: "nomEnseignant", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, []byte(tt.body))
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			created := decode[map[string]interface{}](t, rec)
			id, _ := created["id"].(string)
			require.NotEmpty(t, id)
			assert.Equal(t, tt.want, created[tt.field])

			req, rec = newRequest(http.MethodGet, tt.path+"/"+id)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, created)}, rec)
		})
	}

	t.Run("update", func(t *testing.T) {
		class, err := app.svcs.Classes.Save(context.Background(), school.Class{Name: strPtr("4A")})
		require.NoError(t, err)

		class.Capacity = intPtr(28)
		runHTTPTests(t, app, []httpTest{
			{
				name: "string capacity", method: http.MethodPut, path: "/api/classes/" + class.ID,
				body:     []byte(`{"nomClasse": "4A", "capacite": "28"}`),
				wantCode: http.StatusOK, wantData: marshallObj(t, class),
			},
		})
	})
}

func Test_recordAPI_badRequest(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name     string
		path     string
		body     string
		wantBody string
	}{
		{name: "malformed", path: "/api/classes", body: `{"nomClasse": `},
		{name: "wrong type", path: "/api/classes", body: `{"nomClasse": 3}`},
		{name: "not an object", path: "/api/notes", body: `[1, 2]`},
		{name: "not a number", path: "/api/classes", body: `{"capacite": "lots"}`, wantBody: `{"capacite":"invalid int value"}`},
		{
			name: "not numbers", path: "/api/notes", body: `{"valeur": "quinze", "nomCours": "Maths"}`,
			wantBody: `{"valeur":"invalid float64 value"}`,
		},
		{name: "not a boolean", path: "/api/emargements", body: `{"present": "oui"}`, wantBody: `{"present":"invalid bool value"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, []byte(tt.body))
			app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			if tt.wantBody == "" {
				assert.Contains(t, rec.Body.String(), `"error"`)
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}

	runHTTPTests(t, app, []httpTest{
		{name: "nothing stored", path: "/api/classes", wantCode: http.StatusOK, wantData: marshallList(t)},
		{name: "unknown route", path: "/api/lol", wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "Not Found"})},
	})
}

func Test_courseAPI_queryByClass(t *testing.T) {
	app := setup(t)
	ctx := context.Background()

	newCourse := func(name, class string) school.Course {
		c, err := app.svcs.Courses.Save(ctx, school.Course{Name: strPtr(name), Class: strPtr(class)})
		require.NoError(t, err)
		return c
	}
	maths := newCourse("Maths", "3A")
	french := newCourse("Français", "3A")
	newCourse("Physique", "3B")
	newCourse("Chimie", "3a")
	_, err := app.svcs.Courses.Save(ctx, school.Course{Name: strPtr("Sport")})
	require.NoError(t, err)

	runHTTPTests(t, app, []httpTest{
		{name: "3A", path: "/api/cours/classe/3A", wantCode: http.StatusOK, wantData: marshallList(t, maths, french)},
		{name: "unknown", path: "/api/cours/classe/lol", wantCode: http.StatusOK, wantData: marshallList(t)},
	})
}

func Test_tuitionAPI_monthlyAmount(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name        string
		body        string
		wantMonthly *float64
	}{
		{"derived", `{"matriculeEleve": "M-001", "montantAnnuel": 1200}`, floatPtr(100)},
		{"caller value ignored", `{"montantAnnuel": 1200, "montantMensuel": 7}`, floatPtr(100)},
		{"zero", `{"montantAnnuel": 0}`, floatPtr(0)},
		{"fractional", `{"montantAnnuel": 1000}`, floatPtr(1000.0 / 12.0)},
		{"no annual amount", `{"montantMensuel": 50}`, floatPtr(50)},
		{"nothing", `{"statut": "impayé"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/scolarites", []byte(tt.body))
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			got := decode[school.TuitionRecord](t, rec)
			assert.Equal(t, tt.wantMonthly, got.MonthlyAmount)

			stored, err := app.svcs.TuitionRecords.GetByID(context.Background(), got.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, tt.wantMonthly, stored.MonthlyAmount)
		})
	}

	t.Run("update", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/api/scolarites/s-1", []byte(`{"montantAnnuel": 2400, "montantMensuel": 1}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[school.TuitionRecord](t, rec)
		assert.Equal(t, "s-1", got.ID)
		assert.Equal(t, floatPtr(200), got.MonthlyAmount)
	})
}

func Test_recordAPI_storeUnavailable(t *testing.T) {
	app := setup(t)
	require.NoError(t, app.db.Close(context.Background()))

	internal := marshallObj(t, errInternal)
	runHTTPTests(t, app, []httpTest{
		{name: "list", path: "/api/eleves", wantCode: http.StatusInternalServerError, wantData: internal},
		{name: "retrieve", path: "/api/eleves/e-1", wantCode: http.StatusInternalServerError, wantData: internal},
		{
			name: "create", method: http.MethodPost, path: "/api/eleves", body: []byte(`{"nom": "Kabila"}`),
			wantCode: http.StatusInternalServerError, wantData: internal,
		},
		{
			name: "update", method: http.MethodPut, path: "/api/eleves/e-1", body: []byte(`{"nom": "Kabila"}`),
			wantCode: http.StatusInternalServerError, wantData: internal,
		},
		{name: "delete", method: http.MethodDelete, path: "/api/eleves/e-1", wantCode: http.StatusInternalServerError, wantData: internal},
		{name: "by class", path: "/api/cours/classe/3A", wantCode: http.StatusInternalServerError, wantData: internal},
		{name: "stats", path: "/api/statistiques", wantCode: http.StatusInternalServerError, wantData: internal},
	})
}

func Test_server_cors(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{name: "allowed", origin: "http://localhost:3000", wantOrigin: "http://localhost:3000"},
		{name: "not allowed", origin: "http://evil.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, "/api/classes")
			req.Header.Set("Origin", tt.origin)
			app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	t.Run("preflight", func(t *testing.T) {
		req, rec := newRequest(http.MethodOptions, "/api/classes/c-1")
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	})
}
