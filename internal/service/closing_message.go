package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

var closingPhrases = map[models.Mood][]string{
	models.MoodMuyMal: {
		"Recuerda que tu paz interior es lo más valioso que tienes. Cuídala y date tiempo.",
		"Los momentos difíciles son solo capítulos, no toda tu historia. Esto también pasará.",
		"Sé amable contigo mismo hoy, estás haciendo lo mejor que puedes y eso es suficiente.",
		"Está bien detenerse y respirar. Tu bienestar personal es tu verdadera prioridad.",
		"No hay tormenta que dure para siempre. El sol volverá a salir en tu vida.",
		"Tu valor como persona es inmenso e inquebrantable, independientemente de cómo te sientas hoy.",
		"Date permiso de descansar y sanar el corazón. Te lo mereces.",
		"Un mal día no significa una mala vida. Mañana tendrás una nueva oportunidad para ser feliz.",
		"Abrázate fuerte. Eres tu mejor compañía y tu mayor fortaleza.",
		"Confía en tu capacidad de superar cualquier obstáculo personal. Eres increíble.",
	},
	models.MoodMal: {
		"La resiliencia nace en los momentos de prueba. Eres más fuerte de lo que crees.",
		"No te rindas, los grandes cambios en la vida suelen venir acompañados de grandes sacudidas.",
		"Respira hondo y suelta lo que no puedes controlar. Todo va a estar bien.",
		"Confía en el proceso de tu vida, todo sucede para enseñarnos algo valioso.",
		"Eres una persona valiosa y llena de luz, nunca permitas que nada apague eso.",
		"Hoy es solo un escalón más en tu camino. Sigue subiendo a tu propio ritmo.",
		"Rodéate de cosas que te den paz y tranquilidad hoy. Te mereces serenidad.",
		"Recuerda todo lo que has superado para llegar hasta aquí. Eres un guerrero/a.",
		"Tu potencial para ser feliz es ilimitado, no dejes que un obstáculo te nuble la vista.",
		"Busca esa pequeña chispa de alegría hoy dentro de ti, por pequeña que sea.",
	},
	models.MoodRegular: {
		"La calma es un superpoder. Disfruta de la tranquilidad de ser tú mismo.",
		"Cada día es un regalo único, busca el detalle bonito que la vida tiene hoy para ti.",
		"El equilibrio es la clave de una vida plena. Estás en el camino correcto.",
		"Hoy es el día perfecto para hacer algo amable por ti mismo, solo porque sí.",
		"A veces, la normalidad es el mejor refugio para recargar energías y reconectar contigo.",
		"Confía en tu intuición y sigue adelante con serenidad. Tú conoces tu camino.",
		"La vida no tiene que ser perfecta para ser maravillosa. Disfruta el ahora.",
		"Dedícate un momento a solas hoy. Escucha lo que tu corazón necesita.",
		"Sigue fluyendo con la vida. Todo lo que es para ti, llegará en su momento justo.",
		"Eres el arquitecto de tu propia felicidad. Sigue construyendo tus sueños.",
	},
	models.MoodBien: {
		"¡Qué alegría que te sientas bien! Disfruta al máximo esta sensación de plenitud.",
		"Tu bienestar irradia luz a todos los que te rodean. Gracias por ser tú.",
		"La gratitud transforma lo que tenemos en suficiente. Sigue cultivando esa visión.",
		"Hoy es un gran día para celebrar quien eres y todo lo que has logrado.",
		"Que esta energía positiva te impulse a cumplir tus sueños más personales.",
		"Sonríe, la vida te sonríe de vuelta cuando abres tu corazón.",
		"Guarda esta sensación bonita para cuando necesites un recordatorio de lo genial que es vivir.",
		"Eres merecedor/a de toda la felicidad y amor que sientes hoy.",
		"Disfruta de las pequeñas cosas, ahí reside la verdadera magia de la vida.",
		"Sigue cultivando esa paz y alegría interior, es tu tesoro más grande.",
	},
	models.MoodMuyBien: {
		"¡Estás radiante! Que nada ni nadie apague esa luz tan hermosa que tienes.",
		"El mundo necesita más de esa energía increíble y auténtica que posees.",
		"Hoy eres imparable. Ve tras eso que tanto anhelas para tu vida.",
		"Celébrate hoy y siempre. Eres una persona extraordinaria y única.",
		"Tu felicidad es contagiosa y hermosa. ¡Disfruta cada segundo de este momento!",
		"Estás en tu mejor momento. ¡Vívelo, siéntelo y abrázalo!",
		"La vida es bella y tú la haces aún más especial con tu presencia.",
		"Sigue brillando con esa fuerza única que te caracteriza. Eres inspiración.",
		"Te mereces todo lo bueno que te está pasando y todas las bendiciones que vienen.",
		"Eres pura magia. ¡Sigue volando alto y persiguiendo tus estrellas!",
	},
}

var fallbackPhrases = []string{
	"Gracias por compartir tu sentir. Recuerda que eres importante.",
	"Tu bienestar personal es lo más valioso. ¡Cuídate mucho!",
}

// ClosingMessages picks the thank-you phrase shown after a submission.
type ClosingMessages struct {
	mu   sync.Mutex
	intn func(n int) int
}

// NewClosingMessages uses a time-seeded source when intn is nil.
func NewClosingMessages(intn func(n int) int) *ClosingMessages {
	if intn == nil {
		intn = rand.New(rand.NewSource(time.Now().UnixNano())).Intn
	}
	return &ClosingMessages{intn: intn}
}

// For returns a random phrase for mood. Unknown moods get a generic phrase.
func (c *ClosingMessages) For(mood string) string {
	pool := fallbackPhrases
	if m, ok := models.ParseMood(mood); ok {
		pool = closingPhrases[m]
	}
	c.mu.Lock()
	i := c.intn(len(pool))
	c.mu.Unlock()
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}
