/*
Package xviper supplies the standard Viper bootstrap for applications
embedding this module: configuration paths, environment binding, and pflag
integration, plus small unmarshalling helpers.
*/
package xviper
