// Package defaults holds the datasets used to seed an empty backing store and
// to answer reads when neither the remote store nor the local cache has data.
package defaults

import "sepri/internal/domain"

// SystemPrompt describes the assistant persona and the institutional facts
// it may rely on.
const SystemPrompt = `Eres "SEPRI", el asistente virtual de Seguridad y Prevención del Riesgo del Distrito 22 de la Iglesia Pentecostal Unida de Colombia.
Tu misión es ayudar a pastores y líderes a gestionar la seguridad de sus eventos.
Responde de manera profesional, empática y clara. Utiliza la información de protocolos disponibles para guiar a los usuarios.
Las pólizas para eventos masivos deben enviarse con 30 días de anticipación y la autorización de directivos para campamentos con 2 meses.
Coordinación SEPRI: 3233589608. Asistente de coordinación: 3103922530. Correo: distrito22a@ipuc.org.co.
Ante una emergencia en curso indica llamar primero a la línea 123 y luego a la coordinación SEPRI.`

func News() []domain.NewsItem {
	return []domain.NewsItem{
		{
			ID:       "1",
			Title:    "Actualización de Protocolos 2025",
			Date:     "22 de Agosto, 2024",
			Category: domain.CategoryImportant,
			Summary:  "Se han actualizado las guías para eventos masivos y campamentos. Es obligatorio el uso de los nuevos formatos de pólizas.",
		},
		{
			ID:       "2",
			Title:    "Mejora en Extintores Sede Distrital",
			Date:     "15 de Julio, 2024",
			Category: domain.CategoryUpdate,
			Summary:  "Se realizó la recarga y mantenimiento certificado de todos los extintores de la sede administrativa, cumpliendo con la norma NTC.",
		},
		{
			ID:       "3",
			Title:    "Capacitación de Primeros Auxilios",
			Date:     "10 de Septiembre, 2024",
			Category: domain.CategoryEvent,
			Summary:  "Jornada de capacitación con la Cruz Roja para líderes locales de SEPRI. Inscripciones abiertas.",
		},
	}
}

func Protocols() []domain.Protocol {
	return []domain.Protocol{
		{
			ID:          "transporte",
			Title:       "Transporte y Logística",
			IconName:    domain.IconBus,
			Description: "Protocolos para caravanas, rutas y contratación de vehículos.",
			BaseSteps: []domain.Step{
				{ID: "doc-vehiculo", Title: "Documentación del Vehículo", Description: "Recopilar Tarjeta de Propiedad, SOAT vigente y Revisión Tecnomecánica.", Deadline: "15 días antes", IsDownloadable: true, Order: 0},
				{ID: "doc-conductor", Title: "Documentación del Conductor", Description: "Copia de Cédula y Licencia de Conducción vigente categoría apropiada.", Deadline: "15 días antes", IsDownloadable: true, Order: 1},
			},
			Questions: []domain.Question{
				{ID: "is-public-transport", Text: "¿El transporte es contratado con una empresa pública?", TriggerSteps: []string{"rut-empresa", "poliza-contractual"}, IsEnabled: true},
			},
		},
		{
			ID:          "campamentos",
			Title:       "Campamentos y Retiros",
			IconName:    domain.IconTent,
			Description: "Gestión de seguridad para eventos fuera del templo, fincas y hoteles.",
			BaseSteps: []domain.Step{
				{ID: "auth-directivos", Title: "Autorización Directivos", Description: "Enviar solicitud al correo del distrito.", Deadline: "2 Meses antes", IsDownloadable: true, Order: 0},
				{ID: "plan-contingencia", Title: "Plan de Contingencia", Description: "Documento de ruta de evacuación y emergencias del lugar.", RequiresUpload: true, IsDownloadable: true, Order: 1},
				{ID: "listado-asistentes", Title: "Listado de Asistentes", Description: "Formato Excel con datos de contacto y EPS de todos los participantes.", IsDownloadable: true, Order: 2},
			},
			Questions: []domain.Question{
				{ID: "has-food", Text: "¿Se manipularán alimentos en el sitio?", TriggerSteps: []string{"cert-manipulacion"}, IsEnabled: true},
				{ID: "has-pool", Text: "¿El lugar cuenta con piscina o zonas húmedas?", TriggerSteps: []string{"salvavidas"}, IsEnabled: true},
			},
		},
		{
			ID:          "masivos",
			Title:       "Eventos Masivos (>500)",
			IconName:    domain.IconUsers,
			Description: "Convenciones, confraternidades y conciertos con alto aforo.",
			BaseSteps: []domain.Step{
				{ID: "viabilidad", Title: "Formato de Viabilidad", Description: "Diligenciar formato diseñado por jurídica nacional.", Deadline: "2 Meses antes", IsDownloadable: true, Order: 0},
				{ID: "organismos", Title: "Notificación Organismos de Socorro", Description: "Carta a Bomberos, Defensa Civil o Cruz Roja.", Deadline: "1 Mes antes", IsDownloadable: true, Order: 1},
			},
			Questions: []domain.Question{
				{ID: "over-500", Text: "¿El aforo supera las 500 personas?", TriggerSteps: []string{"poliza-extra"}, IsEnabled: true},
			},
		},
	}
}

// ExtraSteps is the catalog of steps questions may splice into a checklist.
// Entries carry no order so they sort after the base steps.
func ExtraSteps() map[string]domain.Step {
	return map[string]domain.Step{
		"rut-empresa":        {ID: "rut-empresa", Title: "RUT de la Empresa", Description: "Copia del RUT actualizado de la empresa de transporte."},
		"poliza-contractual": {ID: "poliza-contractual", Title: "Póliza Contractual", Description: "Certificado de póliza de responsabilidad civil contractual."},
		"cert-manipulacion":  {ID: "cert-manipulacion", Title: "Curso de Manipulación", Description: "Certificado vigente de manipulación de alimentos."},
		"salvavidas":         {ID: "salvavidas", Title: "Certificado Salvavidas", Description: "Certificación del personal salvavidas de la piscina."},
		"poliza-extra":       {ID: "poliza-extra", Title: "Póliza Extracontractual", Description: "Póliza de responsabilidad civil extracontractual para eventos masivos."},
	}
}

func Popups() []domain.PopupConfig {
	return []domain.PopupConfig{
		{ID: "welcome-alert", Title: "¡Aviso Importante!", Content: "Recuerda enviar las pólizas con 30 días de anticipación para eventos masivos.", IsEnabled: true, Type: domain.PopupInfo},
		{ID: "weather-alert", Title: "Alerta Climática", Content: "Por temporada de lluvias, revisa el estado de techos y carpas antes de tu evento.", IsEnabled: false, Type: domain.PopupWarning},
	}
}

func Forms() []domain.FormTemplate {
	return []domain.FormTemplate{
		{
			ID:          "form-reporte-incidente",
			EventID:     "campamentos",
			Title:       "Reporte de Novedades",
			Description: "Formulario para reportar incidentes menores durante el campamento.",
			Fields: []domain.FormField{
				{ID: "f1", Label: "Nombre del Responsable", Type: domain.FieldText, Required: true},
				{ID: "f2", Label: "Descripción del suceso", Type: domain.FieldTextarea, Required: true},
				{ID: "f3", Label: "¿Hubo lesionados?", Type: domain.FieldCheckbox},
			},
		},
	}
}

func QuickLinks() []domain.QuickLink {
	return []domain.QuickLink{
		{ID: "ql-1", Title: "Descargar Formatos", URL: "/formatos", IsEnabled: true},
		{ID: "ql-2", Title: "Reportar Incidente", URL: "/reportar-incidente", IsEnabled: true},
		{ID: "ql-3", Title: "Directorio de Emergencia", URL: "/directorio-emergencia", IsEnabled: true},
		{ID: "ql-4", Title: "Política de Privacidad", URL: "/politicas-privacidad", IsEnabled: true},
	}
}

func ContactInfo() domain.ContactInfo {
	return domain.ContactInfo{
		CoordinatorName:  "Juan Felipe Vera Gómez",
		CoordinatorPhone: "3233589608",
		AssistantName:    "Dubanier Medina Ruíz",
		AssistantPhone:   "3103922530",
		Email:            "distrito22a@ipuc.org.co",
		Address:          "Sede Administrativa Distrito 22, Colombia",
		FacebookURL:      "https://facebook.com",
		InstagramURL:     "https://instagram.com",
		YoutubeURL:       "https://youtube.com",
		PrivacyPolicy:    "La Iglesia Pentecostal Unida de Colombia - Distrito 22, a través de su área SEPRI, está comprometida con la protección de sus datos personales. Los datos recolectados se utilizan exclusivamente para la gestión de protocolos de seguridad y prevención.",
		TeamMembers: []domain.TeamMember{
			{ID: "1", Name: "Juan Felipe Vera", Role: "Coordinador SEPRI D22", Order: 0},
			{ID: "2", Name: "Dubanier Medina", Role: "Asistente Coordinación", Order: 1},
		},
	}
}

// EmergencyLines are the national lines of Colombia. They are not editable.
func EmergencyLines() []domain.EmergencyLine {
	return []domain.EmergencyLine{
		{Name: "Policía Nacional", Phone: "123"},
		{Name: "Bomberos", Phone: "119"},
		{Name: "Cruz Roja", Phone: "132"},
		{Name: "Defensa Civil", Phone: "144"},
	}
}

// For returns the default dataset of a collection kind.
func For(kind domain.Kind) any {
	switch kind {
	case domain.KindNews:
		return News()
	case domain.KindEvents:
		return Protocols()
	case domain.KindQuickLinks:
		return QuickLinks()
	case domain.KindPopups:
		return Popups()
	case domain.KindForms:
		return Forms()
	case domain.KindContact:
		return ContactInfo()
	}
	return nil
}
