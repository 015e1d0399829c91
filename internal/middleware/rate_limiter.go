package middleware

import (
	"net/http"
	"sync"
	"time"

	"reistoq/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// purgeInterval is how often idle per-IP limiters are dropped.
const purgeInterval = 5 * time.Minute

type visitante struct {
	limiter *rate.Limiter
	visto   time.Time
}

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	mu          sync.Mutex
	porIP       map[string]*visitante
	limite      rate.Limit
	burst       int
	ultimaPurga time.Time
	now         func() time.Time
}

func newIPLimiter(porMinuto int) *ipLimiter {
	if porMinuto < 1 {
		porMinuto = 1
	}
	return &ipLimiter{
		porIP:  make(map[string]*visitante),
		limite: rate.Limit(float64(porMinuto) / 60),
		burst:  porMinuto,
		now:    time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	agora := l.now()
	if agora.Sub(l.ultimaPurga) > purgeInterval {
		l.purgar(agora)
	}

	v, ok := l.porIP[ip]
	if !ok {
		v = &visitante{limiter: rate.NewLimiter(l.limite, l.burst)}
		l.porIP[ip] = v
	}
	v.visto = agora
	return v.limiter.AllowN(agora, 1)
}

// purgar drops limiters idle for longer than purgeInterval. Callers hold mu.
func (l *ipLimiter) purgar(agora time.Time) {
	removidos := 0
	for ip, v := range l.porIP {
		if agora.Sub(v.visto) > purgeInterval {
			delete(l.porIP, ip)
			removidos++
		}
	}
	l.ultimaPurga = agora
	if removidos > 0 {
		log.Debug().Int("purged", removidos).Int("remaining", len(l.porIP)).Msg("rate limiter purged")
	}
}

func limitar(l *ipLimiter, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return limitar(newIPLimiter(20), "Muitas tentativas de login. Tente novamente em 1 minuto.")
}

// RateLimiter is the general API limiter: porMinuto requests per minute per
// IP, with bursts up to the same amount.
func RateLimiter(porMinuto int) gin.HandlerFunc {
	return limitar(newIPLimiter(porMinuto), "Muitas requisições. Tente novamente em instantes.")
}
