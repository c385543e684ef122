package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sepri/internal/defaults"
	"sepri/internal/domain"
)

func incidentForm(t *testing.T) domain.FormTemplate {
	t.Helper()
	forms := defaults.Forms()
	require.NotEmpty(t, forms)
	return forms[0]
}

func TestRender(t *testing.T) {
	form := incidentForm(t)

	name, body, err := Render(form, "Campamentos", Responses{
		"f1": "Ana Pérez",
		"f2": "Corte leve en la mano",
		"f3": "si",
	})
	require.NoError(t, err)

	assert.Equal(t, "Reporte_de_Novedades.txt", name)
	assert.Equal(t, "FORMULARIO: Reporte de Novedades\n"+
		"EVENTO: Campamentos\n\n"+
		"RESPUESTAS:\n"+
		"Nombre del Responsable: Ana Pérez\n"+
		"Descripción del suceso: Corte leve en la mano\n"+
		"¿Hubo lesionados?: Sí\n", body)
}

func TestRender_UnansweredOptionalIsNA(t *testing.T) {
	_, body, err := Render(incidentForm(t), "Campamentos", Responses{"f1": "Ana", "f2": "Nada"})
	require.NoError(t, err)
	assert.Contains(t, body, "¿Hubo lesionados?: N/A\n")
}

func TestValidate(t *testing.T) {
	form := incidentForm(t)

	err := Validate(form, Responses{"f1": "  ", "f3": "quizás"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, []string{"Nombre del Responsable", "Descripción del suceso", "¿Hubo lesionados?"}, fieldErr.Fields)

	_, _, err = Render(form, "x", Responses{})
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Acta_de_cierre.txt", Filename(domain.FormTemplate{Title: "Acta de\t cierre"}))
}
