package assistant

import "fmt"

// CommunityName appears in every prompt.
const CommunityName = "Llama Querétaro"

// Rules is the community rulebook the assistant answers from.
const Rules = `Reglamento de la privada "Llama Querétaro":
- Horario de la alberca: 9 AM a 9 PM, todos los días.
- Salón de eventos: Se debe reservar con al menos 1 semana de anticipación. Costo de $2,000 MXN.
- Cuotas de mantenimiento: Vencen los primeros 5 días de cada mes.
- Mascotas: Deben llevar correa en áreas comunes y los dueños deben limpiar sus desechos.
- Basura: Se recolecta Lunes, Miércoles y Viernes por la mañana. Separar orgánico e inorgánico.
- Para reportar un problema de mantenimiento, el residente debe ir a la sección de Mantenimiento en la app y llenar el formulario.
- Las visitas deben ser pre-registradas en la sección de Seguridad de la app para agilizar su acceso.
`

// Fixed replies shown instead of a generated text.
const (
	FallbackNoKey  = "La función de asistente AI no está disponible. Falta la clave de API."
	FallbackAnswer = "Hubo un error al contactar al asistente de IA. Por favor, inténtalo de nuevo más tarde."
	FallbackDraft  = "Hubo un error al generar el comunicado."
)

const (
	answerTemperature = 0.5
	draftTemperature  = 0.7
)

func answerInstruction() string {
	return fmt.Sprintf("Eres un asistente virtual para la administración del condominio \"%s\". "+
		"Responde las preguntas de los residentes de forma amable y concisa, basándote únicamente en la siguiente información del reglamento. "+
		"Si no sabes la respuesta, di que consultarás con la administración. \n\n%s", CommunityName, Rules)
}

func draftInstruction() string {
	return "Eres un asistente de redacción para el administrador del condominio " + CommunityName +
		". Tu tarea es escribir comunicados claros y profesionales."
}

func draftPrompt(topic string) string {
	return fmt.Sprintf("Genera un comunicado oficial y amigable para los residentes del condominio \"%s\" sobre el siguiente tema: \"%s\". "+
		"El tono debe ser profesional pero cercano. Incluye un título y el cuerpo del mensaje.", CommunityName, topic)
}
