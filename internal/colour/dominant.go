package colour

import "slices"

// dominantClusterThreshold is the RGB distance within which a colour joins an
// existing cluster.
const dominantClusterThreshold = 30

type colourCluster struct {
	r, g, b float64
	count   int
}

func (c *colourCluster) mean() RGB {
	return RGB{R: clampChannel(c.r), G: clampChannel(c.g), B: clampChannel(c.b)}
}

func (c *colourCluster) add(rgb RGB) {
	c.count++
	n := float64(c.count)
	c.r += (float64(rgb.R) - c.r) / n
	c.g += (float64(rgb.G) - c.g) / n
	c.b += (float64(rgb.B) - c.b) / n
}

func (c *colourCluster) distanceSquared(rgb RGB) float64 {
	dr := float64(rgb.R) - c.r
	dg := float64(rgb.G) - c.g
	db := float64(rgb.B) - c.b
	return dr*dr + dg*dg + db*db
}

// DominantColor clusters the palette and returns the mean colour of the
// largest cluster, preferring the brighter cluster on ties. It returns false
// for an empty palette.
func DominantColor(colors []RGB) (RGB, bool) {
	if len(colors) == 0 {
		return RGB{}, false
	}

	const threshold = dominantClusterThreshold * dominantClusterThreshold
	clusters := make([]*colourCluster, 0, len(colors))

	for _, c := range colors {
		var target *colourCluster
		for _, cl := range clusters {
			if cl.distanceSquared(c) < threshold {
				target = cl
				break
			}
		}
		if target == nil {
			target = &colourCluster{}
			clusters = append(clusters, target)
		}
		target.add(c)
	}

	slices.SortStableFunc(clusters, func(a, b *colourCluster) int {
		if a.count != b.count {
			return b.count - a.count
		}
		la, lb := Luma(a.mean()), Luma(b.mean())
		switch {
		case la > lb:
			return -1
		case la < lb:
			return 1
		default:
			return 0
		}
	})

	return clusters[0].mean(), true
}
