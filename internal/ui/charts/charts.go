// Пакет charts — вычисление геометрии SVG-графиков страницы отчётов.
// Вся математика выполняется на сервере; шаблоны только подставляют
// готовые координаты.
package charts

import (
	"fmt"
	"strings"
)

// Размеры области линейного графика тенденции.
const (
	TrendWidth   = 500
	TrendHeight  = 110
	TrendPadding = 20
)

// Bar — нормализованная горизонтальная полоса.
type Bar struct {
	// Etiqueta — подпись полосы.
	Etiqueta string
	// Valor — абсолютное значение.
	Valor int
	// Porcentaje — ширина полосы в процентах от максимума серии (0-100).
	Porcentaje float64
	// Color — цвет заливки (CSS).
	Color string
}

// BarInput — входная точка для построения полос.
type BarInput struct {
	Etiqueta string
	Valor    int
	Color    string
}

// Bars нормализует серию значений к процентам от максимума.
// Пустая серия или нулевой максимум дают нулевые ширины.
func Bars(entradas []BarInput) []Bar {
	max := 0
	for _, e := range entradas {
		if e.Valor > max {
			max = e.Valor
		}
	}

	bars := make([]Bar, 0, len(entradas))
	for _, e := range entradas {
		pct := 0.0
		if max > 0 {
			pct = float64(e.Valor) * 100 / float64(max)
		}
		bars = append(bars, Bar{
			Etiqueta:   e.Etiqueta,
			Valor:      e.Valor,
			Porcentaje: pct,
			Color:      e.Color,
		})
	}
	return bars
}

// Trend — готовые атрибуты polyline и area линейного графика.
type Trend struct {
	// Points — атрибут points для <polyline>.
	Points string
	// AreaPoints — атрибут points для замкнутой <polygon> заливки.
	AreaPoints string
	// Min, Max — границы серии (для подписей осей).
	Min, Max int
}

// TrendLine вычисляет координаты точек тенденции в системе координат
// TrendWidth × TrendHeight с отступом TrendPadding, масштабируя по
// min/max самой серии. Константная серия рисуется горизонтальной линией
// посередине.
func TrendLine(valores []int) Trend {
	if len(valores) == 0 {
		return Trend{}
	}

	min, max := valores[0], valores[0]
	for _, v := range valores[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	innerW := float64(TrendWidth - 2*TrendPadding)
	innerH := float64(TrendHeight - 2*TrendPadding)
	rango := float64(max - min)

	var sb strings.Builder
	for i, v := range valores {
		x := float64(TrendPadding)
		if len(valores) > 1 {
			x += innerW * float64(i) / float64(len(valores)-1)
		}
		// y растёт вниз: максимум серии — верхний край области
		y := float64(TrendPadding) + innerH/2
		if rango > 0 {
			y = float64(TrendPadding) + innerH*(1-float64(v-min)/rango)
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	points := sb.String()

	// Замыкаем область вниз до нижней границы для заливки
	firstX := float64(TrendPadding)
	lastX := float64(TrendPadding)
	if len(valores) > 1 {
		lastX += innerW
	}
	bottom := float64(TrendHeight - TrendPadding)
	area := fmt.Sprintf("%s %.1f,%.1f %.1f,%.1f", points, lastX, bottom, firstX, bottom)

	return Trend{
		Points:     points,
		AreaPoints: area,
		Min:        min,
		Max:        max,
	}
}
