package pure_utils

func Map[T, U any](ts []T, f func(T) U) []U {
	us := make([]U, len(ts))
	for i := range ts {
		us[i] = f(ts[i])
	}
	return us
}

func MapErr[T, U any](ts []T, f func(T) (U, error)) ([]U, error) {
	us := make([]U, len(ts))
	for i := range ts {
		var err error
		us[i], err = f(ts[i])
		if err != nil {
			return us, err
		}
	}
	return us, nil
}
